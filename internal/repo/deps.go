package repo

import (
	"errors"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cachekeys "gridscope-api/internal/cache"
	"gridscope-api/internal/model"
)

// Dependencies bundles the record models and shared infrastructure required
// by repository implementations.
type Dependencies struct {
	DBConn sqlx.SqlConn
	Cache  cache.Cache
	TTL    cachekeys.TTLSet

	AssetsModel         model.AssetsModel
	OutagesModel        model.OutagesModel
	PricingNodesModel   model.PricingNodesModel
	PricingRecordsModel model.PricingRecordsModel
	ZonesModel          model.ZonesModel
}

// Set exposes strongly typed repositories to application logic.
type Set struct {
	Records RecordsRepo
}

// New constructs the repository set, validating required dependencies.
func New(deps Dependencies) (*Set, error) {
	if deps.DBConn == nil {
		return nil, errors.New("repo: missing DBConn dependency")
	}
	if deps.AssetsModel == nil || deps.OutagesModel == nil ||
		deps.PricingNodesModel == nil || deps.PricingRecordsModel == nil ||
		deps.ZonesModel == nil {
		return nil, errors.New("repo: missing record model dependency")
	}

	return &Set{
		Records: newRecordsRepo(deps),
	}, nil
}
