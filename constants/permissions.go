package constants

// Roles
const (
	RoleSystemAdmin      = "system_admin"
	RoleMarketingManager = "marketing_manager"
	RoleSalesExecutive   = "sales_executive"
	RoleSubdealer        = "subdealer"
)

// Permissions
const (
	PermLeadsView       = "crm.leads.view"
	PermLeadsManage     = "crm.leads.manage"
	PermContactsView    = "crm.contacts.view"
	PermContactsManage  = "crm.contacts.manage"
	PermAccountsView    = "crm.accounts.view"
	PermAccountsManage  = "crm.accounts.manage"
	PermCampaignsView   = "crm.campaigns.view"
	PermCampaignsManage = "crm.campaigns.manage"
	PermDashboardView   = "crm.dashboard.view"
	PermSubdealersView  = "crm.subdealers.view"
	PermUsersManage     = "crm.users.manage"
)

var AllRoles = []string{
	RoleSystemAdmin,
	RoleMarketingManager,
	RoleSalesExecutive,
	RoleSubdealer,
}

var AllPermissions = []string{
	PermLeadsView,
	PermLeadsManage,
	PermContactsView,
	PermContactsManage,
	PermAccountsView,
	PermAccountsManage,
	PermCampaignsView,
	PermCampaignsManage,
	PermDashboardView,
	PermSubdealersView,
	PermUsersManage,
}

// RolePermissions are granted to every user of the role in addition to
// the user's own permission list. System admins need no entry.
var RolePermissions = map[string][]string{
	RoleMarketingManager: {
		PermLeadsView, PermLeadsManage,
		PermContactsView, PermContactsManage,
		PermAccountsView, PermAccountsManage,
		PermCampaignsView, PermCampaignsManage,
		PermDashboardView,
		PermSubdealersView,
	},
	RoleSalesExecutive: {
		PermLeadsView, PermLeadsManage,
		PermContactsView, PermContactsManage,
		PermAccountsView,
		PermCampaignsView,
		PermDashboardView,
	},
	RoleSubdealer: {
		PermDashboardView,
	},
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func IsValidPermission(perm string) bool {
	for _, p := range AllPermissions {
		if p == perm {
			return true
		}
	}
	return false
}
