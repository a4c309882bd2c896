package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/settings"
)

var errNotDataURL = errors.New("not a data URL")

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]+|(rgb|hsl)a?\([0-9.,%\s]+\))$`)

// isColor accepts hex, named and functional CSS colors
func isColor(s string) bool {
	return colorPattern.MatchString(s)
}

// formImage reads an optional image upload and encodes it as a data URL.
// An absent field yields an empty string.
func formImage(c echo.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh.Size == 0 {
		return "", nil
	}
	if fh.Size > maxImageUploadMiB*1024*1024 {
		return "", fmt.Errorf("%s is larger than %d MB", field, maxImageUploadMiB)
	}
	f, err := readUploadedFile(fh)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", field, err)
	}
	mt := mimetype.Detect(f.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%s is not an image", field)
	}
	return encodeDataURL(mt.String(), f.Data), nil
}

func encodeDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// decodeDataURL splits a data URL into its content type and payload. Missing
// content types are sniffed from the payload.
func decodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URL")
	}

	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("malformed data URL payload: %w", err)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("malformed data URL payload: %w", err)
		}
		data = []byte(unescaped)
	}

	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	return contentType, data, nil
}

// mediaSource picks the stored image a /media path refers to
func mediaSource(name string, s model.SiteSettings) string {
	switch name {
	case "site-icon":
		return s.SiteIcon
	case "og-image":
		return s.OGImage
	case "background":
		if s.DownloadPageBackground.Type == model.BackgroundImage {
			return s.DownloadPageBackground.Value
		}
	}
	return ""
}

// HandleMedia serves the images stored in the settings. Plain URLs redirect.
func (h *Handler) HandleMedia(c echo.Context) error {
	src := mediaSource(c.Param("name"), h.store.Settings())
	if src == "" {
		return c.String(http.StatusNotFound, "Not found")
	}

	contentType, data, err := decodeDataURL(src)
	if errors.Is(err, errNotDataURL) {
		return c.Redirect(http.StatusFound, src)
	}
	if err != nil {
		log.Printf("Warning: Stored image %s is unreadable: %v", c.Param("name"), err)
		return c.String(http.StatusNotFound, "Not found")
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, contentType, data)
}

// HandleRobots serves the configured robots.txt with the site URL filled in
func (h *Handler) HandleRobots(c echo.Context) error {
	body := strings.ReplaceAll(h.store.Settings().RobotsTxtContent, settings.SiteURLPlaceholder, h.cfg.Origin())
	return c.String(http.StatusOK, body)
}

// HandleSitemap serves the configured sitemap.xml with the site URL filled in
func (h *Handler) HandleSitemap(c echo.Context) error {
	body := strings.ReplaceAll(h.store.Settings().SitemapXMLContent, settings.SiteURLPlaceholder, h.cfg.Origin())
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, []byte(body))
}
