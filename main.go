// sopchat - terminal client for the SOP assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import "github.com/jeranaias/sopchat/internal/cli"

func main() {
	cli.Execute()
}
