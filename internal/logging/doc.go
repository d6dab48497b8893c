// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

// Package logging provides zerolog-based structured logging for Roomscope.
//
// A single global logger is configured once from main via Init and used
// everywhere through the package-level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Ctx(r.Context()).Error().Err(err).Msg("query failed")
//
// Request and correlation IDs travel in the context and are attached by Ctx.
//
// Two adapters route third-party logging into the same sink: SlogHandler
// (for suture via sutureslog) and WatermillAdapter (for the profile view
// router).
//
// Always terminate event chains with Msg or Send, otherwise nothing is written.
package logging
