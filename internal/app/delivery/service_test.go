package delivery

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/adapter/redis"
	"github.com/YelzhanWeb/orderdesk/internal/app/cacheaside"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

const tenantID = "6f1c1c1e-4f0e-4b7a-9d55-0a8f3f1c2b11"

// memRepo mirrors the default-clearing and in-use rules of the Postgres
// repository.
type memRepo struct {
	templates map[string]*domain.PricingTemplate
	inUse     map[string]bool
}

func (r *memRepo) save(t *domain.PricingTemplate) {
	if t.IsDefault {
		for _, other := range r.templates {
			if other.ID != t.ID {
				other.IsDefault = false
			}
		}
	}
	cp := *t
	r.templates[t.ID] = &cp
}

func (r *memRepo) Create(_ context.Context, _ tenant.Scope, t *domain.PricingTemplate) error {
	r.save(t)
	return nil
}

func (r *memRepo) FindByID(_ context.Context, _ tenant.Scope, id string) (*domain.PricingTemplate, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, domain.NotFoundf("delivery template not found")
	}
	cp := *t
	return &cp, nil
}

func (r *memRepo) List(context.Context, tenant.Scope) ([]*domain.PricingTemplate, error) {
	out := make([]*domain.PricingTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memRepo) Update(_ context.Context, _ tenant.Scope, t *domain.PricingTemplate) error {
	r.save(t)
	return nil
}

func (r *memRepo) Delete(_ context.Context, _ tenant.Scope, id string) error {
	if _, ok := r.templates[id]; !ok {
		return domain.NotFoundf("delivery template not found")
	}
	if r.inUse[id] {
		return domain.Conflictf("delivery template is used by existing orders")
	}
	delete(r.templates, id)
	return nil
}

func newService() (*Service, *memRepo) {
	repo := &memRepo{templates: map[string]*domain.PricingTemplate{}, inUse: map[string]bool{}}
	cache := cacheaside.New[[]*domain.PricingTemplate](redis.NopCache(), logger.Nop())
	return NewService(repo, cache, logger.Nop()), repo
}

func TestDefaultTemplateIsUnique(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	scope := tenant.MustNew(tenantID)

	city, err := svc.CreateTemplate(ctx, scope, interfaces.CreateTemplateCommand{
		Name: "City", FirstKgPrice: decimal.NewFromInt(150), ExtraKgPrice: decimal.NewFromInt(50), IsDefault: true,
	})
	require.NoError(t, err)

	region, err := svc.CreateTemplate(ctx, scope, interfaces.CreateTemplateCommand{
		Name: "Region", FirstKgPrice: decimal.NewFromInt(300), ExtraKgPrice: decimal.NewFromInt(100), IsDefault: true,
	})
	require.NoError(t, err)

	list, err := svc.ListTemplates(ctx, scope)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, region.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)

	yes := true
	_, err = svc.UpdateTemplate(ctx, scope, city.ID, interfaces.UpdateTemplateCommand{IsDefault: &yes})
	require.NoError(t, err)

	list, err = svc.ListTemplates(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, city.ID, list[0].ID)
	assert.False(t, list[1].IsDefault)
}

func TestTemplateValidation(t *testing.T) {
	svc, _ := newService()
	scope := tenant.MustNew(tenantID)

	_, err := svc.CreateTemplate(context.Background(), scope, interfaces.CreateTemplateCommand{
		Name: "Bad", FirstKgPrice: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateTemplate(context.Background(), scope, interfaces.CreateTemplateCommand{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteTemplate(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	scope := tenant.MustNew(tenantID)

	tmpl, err := svc.CreateTemplate(ctx, scope, interfaces.CreateTemplateCommand{Name: "City", FirstKgPrice: decimal.NewFromInt(150)})
	require.NoError(t, err)

	repo.inUse[tmpl.ID] = true
	assert.ErrorIs(t, svc.DeleteTemplate(ctx, scope, tmpl.ID), domain.ErrConflict)

	repo.inUse[tmpl.ID] = false
	require.NoError(t, svc.DeleteTemplate(ctx, scope, tmpl.ID))
	assert.ErrorIs(t, svc.DeleteTemplate(ctx, scope, tmpl.ID), domain.ErrNotFound)
}
