package resource

import (
	"testing"

	"marketing-crm/constants"

	"github.com/stretchr/testify/assert"
)

func names(mods []ModuleResponse) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Name)
	}
	return out
}

func TestModulesFor(t *testing.T) {
	all := ModulesFor(func(string) bool { return true })
	assert.Equal(t, []string{"Dashboard", "Leads", "Contacts", "Accounts", "Campaigns", "Subdealers", "Users"}, names(all))

	granted := map[string]bool{}
	for _, p := range constants.RolePermissions[constants.RoleSalesExecutive] {
		granted[p] = true
	}
	sales := ModulesFor(func(p string) bool { return granted[p] })
	assert.Equal(t, []string{"Dashboard", "Leads", "Contacts", "Accounts", "Campaigns"}, names(sales))

	assert.Empty(t, ModulesFor(func(string) bool { return false }))
}
