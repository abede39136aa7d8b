package search

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/pub-search/internal/middleware"
)

func RegisterRoutes(container *restful.Container, handler *SearchHandler) {
	ws := new(restful.WebService)
	ws.
		Path("/search").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.Route(ws.GET("/").
		To(handler.Find).
		Doc("Substring and keyword search over the publication corpus").
		Metadata(restfulspec.KeyOpenAPITags, []string{"search"}).
		Param(ws.QueryParameter("query", "Search text").DataType("string").Required(true)).
		Param(ws.QueryParameter("exact", "Only whole-phrase matches").DataType("boolean").DefaultValue("false")).
		Writes([]MatchResult{}).
		Returns(200, "OK", []MatchResult{}).
		Returns(400, "Bad Request", middleware.ErrorResponse{}).
		Returns(500, "Internal Server Error", middleware.ErrorResponse{}).
		Returns(503, "Service Unavailable", middleware.ErrorResponse{}))

	ws.Route(ws.POST("/").
		To(handler.Search).
		Doc("Search with a JSON body").
		Metadata(restfulspec.KeyOpenAPITags, []string{"search"}).
		Reads(SearchRequest{}).
		Writes(SearchResponse{}).
		Returns(200, "OK", SearchResponse{}).
		Returns(400, "Bad Request", middleware.ErrorResponse{}).
		Returns(500, "Internal Server Error", middleware.ErrorResponse{}).
		Returns(503, "Service Unavailable", middleware.ErrorResponse{}))

	container.Add(ws)
}
