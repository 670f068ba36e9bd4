// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package web exposes the formula translator over HTTP: single and batch
// translation endpoints returning SQL fragments with their references and
// review flags.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	excelsql "github.com/Mohammed87FS/excel-sql-converter"
)

// Server hosts the translation API. The translator passed in serves
// requests that do not carry their own mappings.
type Server struct {
	router     *chi.Mux
	port       int
	translator *excelsql.Translator
}

// NewServer creates a server listening on the given port. A nil translator
// falls back to default options.
func NewServer(port int, translator *excelsql.Translator) *Server {
	if translator == nil {
		translator = excelsql.New(nil)
	}
	s := &Server{
		router:     chi.NewRouter(),
		port:       port,
		translator: translator,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/translate", s.handleTranslate)
		r.Post("/translate/batch", s.handleTranslateBatch)
	})
}

// Router returns the handler, mainly for tests driving it with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the server and blocks until SIGINT or SIGTERM, then shuts
// down gracefully with a five second drain window.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("translation API listening on :%d", s.port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
