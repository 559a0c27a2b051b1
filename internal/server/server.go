// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes a recommendation run as a small web app: the
// rendered results page plus a JSON API.
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pdiddy/arxivlens/internal/render"
	"github.com/pdiddy/arxivlens/pkg/types"
)

// Results is one finished recommendation run.
type Results struct {
	// Query is the arXiv query the run was made for.
	Query string `json:"query" yaml:"query"`

	// FellBack notes that the relevance filter eliminated every paper and
	// Papers holds the embedding ranking instead.
	FellBack bool `json:"fell_back" yaml:"fell_back"`

	// Papers is the ranked list, best first.
	Papers []*types.Paper `json:"papers" yaml:"papers"`
}

// New builds the echo app serving the given results.
func New(results Results) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/", func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(http.StatusOK)
		return render.WriteHTML(c.Response(), results.Papers, results.FellBack)
	})
	e.GET("/api/papers", func(c echo.Context) error {
		return c.JSON(http.StatusOK, results)
	})

	return e
}

// Serve runs the app on the given listen address until the process exits.
func Serve(results Results, listenAddress string) error {
	e := New(results)
	return e.Start(listenAddress)
}
