package resource

import "marketing-crm/constants"

// ModuleResponse is a navigation entry of the CRM front end.
type ModuleResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Route        string `json:"route"`
	Permission   string `json:"permission"`
	IsActive     bool   `json:"is_active"`
	Serializable int    `json:"serializable"`
}

var modules = []ModuleResponse{
	{ID: 1, Name: "Dashboard", Route: "/dashboard", Permission: constants.PermDashboardView, IsActive: true, Serializable: 1},
	{ID: 2, Name: "Leads", Route: "/leads", Permission: constants.PermLeadsView, IsActive: true, Serializable: 2},
	{ID: 3, Name: "Contacts", Route: "/contacts", Permission: constants.PermContactsView, IsActive: true, Serializable: 3},
	{ID: 4, Name: "Accounts", Route: "/accounts", Permission: constants.PermAccountsView, IsActive: true, Serializable: 4},
	{ID: 5, Name: "Campaigns", Route: "/campaigns", Permission: constants.PermCampaignsView, IsActive: true, Serializable: 5},
	{ID: 6, Name: "Subdealers", Route: "/subdealers", Permission: constants.PermSubdealersView, IsActive: true, Serializable: 6},
	{ID: 7, Name: "Users", Route: "/users", Permission: constants.PermUsersManage, IsActive: true, Serializable: 7},
}

// ModulesFor returns the modules whose permission has reports as granted,
// in menu order.
func ModulesFor(has func(permission string) bool) []ModuleResponse {
	visible := []ModuleResponse{}
	for _, m := range modules {
		if m.IsActive && has(m.Permission) {
			visible = append(visible, m)
		}
	}
	return visible
}
