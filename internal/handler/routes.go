// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"gridscope-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/health",
				Handler: HealthHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/config",
				Handler: MapConfigHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/assets",
				Handler: AssetMapHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/assets/list",
				Handler: AssetListHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/assets/regions",
				Handler: RegionsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/assets/fuel-types",
				Handler: FuelTypesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/assets/:id",
				Handler: AssetGetHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/assets/:id/details",
				Handler: AssetDetailsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/outages",
				Handler: OutageMapHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/outages/active",
				Handler: ActiveOutagesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/outages/stats",
				Handler: OutageStatsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/outages/timeline",
				Handler: OutageTimelineHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/outages/:id",
				Handler: OutageGetHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/outages/asset/:id",
				Handler: AssetOutagesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/pricing/nodes",
				Handler: PricingNodesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/pricing/heatmap",
				Handler: HeatmapHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/pricing/timestamps",
				Handler: TimestampsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/pricing/stats",
				Handler: PricingStatsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/pricing/node/:id",
				Handler: NodeGetHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/pricing/node/:id/timeseries",
				Handler: NodeTimeseriesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/zones",
				Handler: ZoneMapHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/zones/list",
				Handler: ZoneListHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/zones/grouped",
				Handler: ZoneGroupedHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/zones/containing",
				Handler: ZoneContainingHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/zones/:id",
				Handler: ZoneGetHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/zones/:id/children",
				Handler: ZoneChildrenHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/zones/:id/ancestors",
				Handler: ZoneAncestorsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/zones/:id/geojson",
				Handler: ZoneGeoJSONHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api"),
	)
}
