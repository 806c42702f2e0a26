package esi

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/evetools/hangarstat/internal/domain"
)

type jobEntry struct {
	JobID             int64  `json:"job_id"`
	Status            string `json:"status"`
	ActivityID        int64  `json:"activity_id"`
	BlueprintTypeID   int64  `json:"blueprint_type_id"`
	ProductTypeID     int64  `json:"product_type_id"`
	Runs              int64  `json:"runs"`
	OutputLocationID  int64  `json:"output_location_id"`
	StationID         int64  `json:"station_id"`
	BlueprintLocation int64  `json:"blueprint_location_id"`
}

// FetchIndustryJobs fetches the owner's industry jobs.
func (c *Client) FetchIndustryJobs(ctx context.Context, owner domain.Owner) ([]domain.IndustryJob, error) {
	var entries []jobEntry
	if err := c.getJSON(ctx, ownerPath(owner, "industry/jobs"), &entries); err != nil {
		return nil, fmt.Errorf("fetching industry jobs for %s: %w", owner.Key(), err)
	}

	return lo.Map(entries, func(e jobEntry, _ int) domain.IndustryJob {
		return domain.IndustryJob{
			JobID:            e.JobID,
			Status:           e.Status,
			BlueprintTypeID:  e.BlueprintTypeID,
			ProductTypeID:    e.ProductTypeID,
			Runs:             e.Runs,
			OutputLocationID: e.OutputLocationID,
			StationID:        e.StationID,
		}
	}), nil
}
