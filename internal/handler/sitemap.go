package handler

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"carta/internal/dto"
	"carta/internal/service"

	"github.com/gin-gonic/gin"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap lists the storefront pages plus one entry per available product.
func Sitemap(productos service.ProductoService, baseURL string) gin.HandlerFunc {
	base := strings.TrimRight(baseURL, "/")
	return func(c *gin.Context) {
		hoy := time.Now().UTC().Format("2006-01-02")
		set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
		add := func(path, freq, prio string) {
			set.URLs = append(set.URLs, sitemapURL{Loc: base + path, LastMod: hoy, ChangeFreq: freq, Priority: prio})
		}
		add("/", "daily", "1.0")
		add("/catalogo", "daily", "0.9")
		add("/historial", "monthly", "0.3")
		add("/admin", "monthly", "0.1")

		resp, err := productos.Listar(c.Request.Context(), dto.ProductoFilter{SoloDisponibles: true, Page: 1, Limit: 200})
		if err != nil {
			respondError(c, err)
			return
		}
		for _, p := range resp.Data {
			add("/producto/"+p.ID.String(), "weekly", "0.7")
		}

		c.Header("Cache-Control", "public, max-age=3600")
		c.XML(http.StatusOK, set)
	}
}
