// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package logger configures the process-wide zerolog logger. Other packages
// log through github.com/rs/zerolog/log directly.
package logger
