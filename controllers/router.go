package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Router struct {
	DB *gorm.DB

	HealthController  *HealthController
	SearchController  *SearchController
	ClientsController *ClientsController
	AuditsController  *AuditsController
}

func (r Router) RegisterRoutes(router gin.IRouter) {
	//
	// Anonymous requests
	//
	router.GET("/health", r.HealthController.Status)

	//
	// Authorized API clients
	//
	authorized := router.Group("/", RequireClient(r.DB))
	authorized.GET("/search", Audited(r.DB, "search", "terms"), r.SearchController.Search)
	authorized.GET("/search/terms/:uid", Audited(r.DB, "term_retrieve", "terms"), r.SearchController.GetTerm)
	authorized.GET("/search/topics", Audited(r.DB, "topic_list", "topics"), r.SearchController.ListTopics)
	authorized.GET("/search/topics/:uid/terms", Audited(r.DB, "topic_terms", "topics"), r.SearchController.TopicTerms)
	authorized.GET("/search/history", Audited(r.DB, "search_history", "search_records"), r.SearchController.History)
	authorized.DELETE("/search/history", Audited(r.DB, "search_history_clear", "search_records"), r.SearchController.ClearHistory)
	authorized.GET("/search/metrics", Audited(r.DB, "metrics_retrieve", "metrics"), r.SearchController.Metrics)

	//
	// Internal API clients only
	//
	internal := authorized.Group("/", RequireInternalClient)
	internal.POST("/search/terms", Audited(r.DB, "term_create", "terms"), r.SearchController.CreateTerm)
	internal.PATCH("/search/terms/:uid", Audited(r.DB, "term_update", "terms"), r.SearchController.UpdateTerm)
	internal.DELETE("/search/terms/:uid", Audited(r.DB, "term_delete", "terms"), r.SearchController.DeleteTerm)

	internal.POST("/search/topics", Audited(r.DB, "topic_create", "topics"), r.SearchController.CreateTopic)
	internal.PATCH("/search/topics/:uid", Audited(r.DB, "topic_update", "topics"), r.SearchController.UpdateTopic)
	internal.DELETE("/search/topics/:uid", Audited(r.DB, "topic_delete", "topics"), r.SearchController.DeleteTopic)

	internal.GET("/clients", Audited(r.DB, "client_list", "clients"), r.ClientsController.List)
	internal.POST("/clients", Audited(r.DB, "client_create", "clients"), r.ClientsController.Create)
	internal.GET("/clients/:uid", Audited(r.DB, "client_retrieve", "clients"), r.ClientsController.Get)
	internal.PATCH("/clients/:uid", Audited(r.DB, "client_update", "clients"), r.ClientsController.Update)
	internal.DELETE("/clients/:uid", Audited(r.DB, "client_delete", "clients"), r.ClientsController.Delete)
	internal.PUT("/clients/:uid/api-key", Audited(r.DB, "api_key_refresh", "clients"), r.ClientsController.RotateKey)

	internal.GET("/audits", Audited(r.DB, "audit_list", "audits"), r.AuditsController.List)
}
