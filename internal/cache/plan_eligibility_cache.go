package cache

import (
	"strings"
	"time"

	usagedomain "github.com/smallbiznis/mspdesk/internal/usage/domain"
)

const defaultEligibilityTTL = 45 * time.Second

// PlanEligibilityCache stores recent eligibility lookups so repeated usage
// entry for the same company and service does not re-run the join each time.
// Staleness is bounded by the TTL; plan assignment changes show up within it.
type PlanEligibilityCache interface {
	GetEligiblePlans(tenantID, companyID, serviceID string) ([]usagedomain.EligiblePlan, bool)
	SetEligiblePlans(tenantID, companyID, serviceID string, plans []usagedomain.EligiblePlan)
	Invalidate(tenantID, companyID, serviceID string)
}

type planEligibilityCache struct {
	plans Cache[string, []usagedomain.EligiblePlan]
	ttl   time.Duration
}

// NewPlanEligibilityCache returns an in-memory cache tuned for usage entry.
func NewPlanEligibilityCache() PlanEligibilityCache {
	return &planEligibilityCache{
		plans: NewTTLCache[string, []usagedomain.EligiblePlan](),
		ttl:   defaultEligibilityTTL,
	}
}

func (c *planEligibilityCache) GetEligiblePlans(tenantID, companyID, serviceID string) ([]usagedomain.EligiblePlan, bool) {
	return c.plans.Get(cacheKey(tenantID, companyID, serviceID))
}

func (c *planEligibilityCache) SetEligiblePlans(tenantID, companyID, serviceID string, plans []usagedomain.EligiblePlan) {
	c.plans.Set(cacheKey(tenantID, companyID, serviceID), plans, c.ttl)
}

func (c *planEligibilityCache) Invalidate(tenantID, companyID, serviceID string) {
	c.plans.Delete(cacheKey(tenantID, companyID, serviceID))
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, "|")
}
