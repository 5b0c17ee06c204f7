package domain

import (
	billingplandomain "github.com/smallbiznis/mspdesk/internal/billingplan/domain"
)

// DefaultPlanSelection picks the plan a usage record should bill against when
// none was chosen explicitly:
//  1. a single eligible plan wins outright;
//  2. otherwise a single bucket plan wins, since pooled hours are consumed
//     before overage plans;
//  3. otherwise the choice stays with the caller.
func DefaultPlanSelection(eligible []EligiblePlan) *EligiblePlan {
	if len(eligible) == 1 {
		return &eligible[0]
	}

	var bucket *EligiblePlan
	for i := range eligible {
		if eligible[i].PlanType != billingplandomain.PlanBucket {
			continue
		}
		if bucket != nil {
			return nil
		}
		bucket = &eligible[i]
	}
	return bucket
}
