package models

type RoleName string

const (
	RoleEmperor  RoleName = "emperor"
	RoleDuke     RoleName = "duke"
	RoleKnight   RoleName = "knight"
	RoleSquire   RoleName = "squire"
	RoleCivilian RoleName = "civilian"
)

type Capability string

const (
	CapabilityManageEmail       Capability = "manage_email"
	CapabilityManageWebhook     Capability = "manage_webhook"
	CapabilityPromoteUser       Capability = "promote_user"
	CapabilityManageConfig      Capability = "manage_config"
	CapabilityManageAPIKey      Capability = "manage_api_key"
	CapabilityCreateDeleteEmail Capability = "create_delete_email"
)

// roleCapabilities is built once and never mutated at runtime
var roleCapabilities = map[RoleName][]Capability{
	RoleEmperor: {
		CapabilityManageEmail,
		CapabilityManageWebhook,
		CapabilityPromoteUser,
		CapabilityManageConfig,
		CapabilityManageAPIKey,
		CapabilityCreateDeleteEmail,
	},
	RoleDuke: {
		CapabilityManageEmail,
		CapabilityManageWebhook,
		CapabilityManageAPIKey,
		CapabilityCreateDeleteEmail,
	},
	RoleKnight: {
		CapabilityManageEmail,
		CapabilityManageWebhook,
		CapabilityCreateDeleteEmail,
	},
	RoleSquire: {
		CapabilityManageEmail,
		CapabilityManageWebhook,
	},
	RoleCivilian: {},
}

var roleDescriptions = map[RoleName]string{
	RoleEmperor:  "Emperor (site owner)",
	RoleDuke:     "Duke (super user)",
	RoleKnight:   "Knight (advanced user)",
	RoleSquire:   "Squire (send and receive mail only)",
	RoleCivilian: "Civilian (regular user)",
}

func ValidRoleName(name RoleName) bool {
	_, ok := roleCapabilities[name]
	return ok
}

// HasCapability reports whether any of the held roles grants the capability
func HasCapability(roles []RoleName, capability Capability) bool {
	for _, role := range roles {
		for _, c := range roleCapabilities[role] {
			if c == capability {
				return true
			}
		}
	}
	return false
}
