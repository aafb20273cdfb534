// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads sopchat settings.
//
// Sources, later ones winning:
//
//  1. Default()
//  2. ~/.sopchat/config.toml (or the --config path)
//  3. a .env file in the working directory
//  4. SOPCHAT_* environment variables
//
// Example config.toml:
//
//	[backend]
//	url = "https://sop.example.com/chat"
//	timeout = "60s"
//
//	[storage]
//	backend = "sqlite"
//	path = "~/.sopchat/history.db"
//
//	[guard]
//	warning_duration = "3s"
//	extra_trigger_keys = ["f12"]
package config
