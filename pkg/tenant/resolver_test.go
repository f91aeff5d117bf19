package tenant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/innkeep/innkeep/pkg/tenant"
)

func TestResolver(t *testing.T) {
	t.Parallel()

	resolver := tenant.NewResolver("innkeep.app")

	tests := []struct {
		name string
		host string
		want tenant.Resolution
	}{
		{
			name: "hotel subdomain",
			host: "movenpick.innkeep.app",
			want: tenant.Resolution{Kind: tenant.KindTenant, Subdomain: "movenpick"},
		},
		{
			name: "hotel subdomain with port",
			host: "movenpick.innkeep.app:8080",
			want: tenant.Resolution{Kind: tenant.KindTenant, Subdomain: "movenpick"},
		},
		{
			name: "mixed case host",
			host: "MoVenPick.Innkeep.App",
			want: tenant.Resolution{Kind: tenant.KindTenant, Subdomain: "movenpick"},
		},
		{
			name: "bare root domain",
			host: "innkeep.app",
			want: tenant.Resolution{Kind: tenant.KindMarketing},
		},
		{
			name: "www alias",
			host: "www.innkeep.app",
			want: tenant.Resolution{Kind: tenant.KindMarketing},
		},
		{
			name: "reserved admin label",
			host: "admin.innkeep.app",
			want: tenant.Resolution{Kind: tenant.KindAdmin},
		},
		{
			name: "empty host",
			host: "",
			want: tenant.Resolution{Kind: tenant.KindUnresolved},
		},
		{
			name: "unrelated domain",
			host: "example.com",
			want: tenant.Resolution{Kind: tenant.KindUnresolved},
		},
		{
			name: "localhost",
			host: "localhost:3000",
			want: tenant.Resolution{Kind: tenant.KindUnresolved},
		},
		{
			name: "multi-label subdomain",
			host: "a.b.innkeep.app",
			want: tenant.Resolution{Kind: tenant.KindUnresolved},
		},
		{
			name: "suffix lookalike",
			host: "evil-innkeep.app",
			want: tenant.Resolution{Kind: tenant.KindUnresolved},
		},
		{
			name: "trailing dot",
			host: "movenpick.innkeep.app.",
			want: tenant.Resolution{Kind: tenant.KindTenant, Subdomain: "movenpick"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, resolver.Resolve(tt.host))
		})
	}
}

func TestTenantIsActive(t *testing.T) {
	t.Parallel()

	assert.True(t, (&tenant.Tenant{Status: tenant.StatusActive}).IsActive())
	assert.False(t, (&tenant.Tenant{Status: tenant.StatusInactive}).IsActive())
	assert.False(t, (&tenant.Tenant{Status: tenant.StatusSuspended}).IsActive())

	var nilTenant *tenant.Tenant
	assert.False(t, nilTenant.IsActive())
}
