package interfaces

import (
	"context"

	"github.com/ternarybob/moneta/internal/models"
)

// FilingsService retrieves structured filing tables for the cross-product of
// stock ids, years and seasons. The returned map always covers every
// requested composite key; combinations that could not be fetched map to a
// nil TableSet. One missing filing never aborts the batch.
type FilingsService interface {
	FetchFilings(ctx context.Context, stockIDs []string, years []int, seasons []int) (map[string]models.TableSet, error)
}
