// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

// Package validation wraps go-playground/validator v10 for query parameter
// structs.
//
//	type TimelineRequest struct {
//	    EventType string `query:"event_type" validate:"omitempty,oneof=join leave"`
//	    Limit     int    `query:"limit" validate:"min=1,max=500"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    return database.Validation(verr)
//	}
//
// The validator is a process-wide singleton so struct metadata is cached.
package validation
