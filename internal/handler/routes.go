package handler

import (
	"github.com/labstack/echo/v4"
)

// Register mounts every page, form and asset route of the site on e
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.HandleIndex)
	e.GET("/go/:page", h.HandleNavigate)
	e.GET("/api/state", h.HandleState)
	e.POST("/locale", h.HandleLocale)
	e.POST("/notice/dismiss", h.HandleDismissNotice)

	// Upload flow
	e.POST("/upload/select", h.HandleSelectFiles)
	e.POST("/upload/metadata", h.HandleFileMetadata)
	e.POST("/upload/start", h.HandleStartUpload)
	e.POST("/upload/reset", h.HandleResetUpload)
	e.GET("/files/:index/preview", h.HandlePreview)
	e.GET("/download", h.HandleDownload)
	e.POST("/report/open", h.HandleReportOpen)
	e.POST("/report", h.HandleReport)
	e.POST("/report/close", h.HandleReportClose)

	// Account
	e.GET("/login", h.HandleLoginPage)
	e.POST("/login", h.HandleLogin)
	e.POST("/login/tab", h.HandleLoginTab)
	e.POST("/logout", h.HandleLogout)
	e.POST("/profile/name", h.HandleProfileName)
	e.POST("/profile/files/:id", h.HandleProfileFile)
	e.POST("/profile/files/:id/delete", h.HandleProfileFileDelete)
	e.POST("/plans/:id/subscribe", h.HandleSubscribe)
	e.POST("/payment/method", h.HandlePaymentMethod)
	e.POST("/payment/card", h.HandlePaymentCard)
	e.POST("/payment/close", h.HandlePaymentClose)
	e.POST("/contact", h.HandleContact)

	// Admin dashboard
	e.POST("/admin/general", h.HandleAdminGeneral)
	e.POST("/admin/seo", h.HandleAdminSEO)
	e.POST("/admin/ads", h.HandleAdminAds)
	e.POST("/admin/subscriptions", h.HandleAdminSubscriptions)
	e.POST("/admin/plans/:id/popular", h.HandleAdminPopular)
	e.POST("/admin/pages", h.HandleAdminPages)
	e.GET("/admin/export", h.HandleAdminExport)
	e.POST("/admin/import", h.HandleAdminImport)

	// Public assets
	e.GET("/media/:name", h.HandleMedia)
	e.GET("/robots.txt", h.HandleRobots)
	e.GET("/sitemap.xml", h.HandleSitemap)
}
