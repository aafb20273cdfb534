// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package devserver is a small fake chat backend for trying sopchat locally.
//
// It answers POST /chat from a YAML fixture file, serves attachments from a
// directory under /files/, and exposes request counters on /metrics:
//
//	replies:
//	  - match: cuci tangan
//	    content: "Ikuti **SOP** berikut."
//	    files:
//	      - name: sop-cuci-tangan.txt
//	        type: text
//	  - match: rusak
//	    status: 500
//
// A message that matches no fixture is echoed back.
package devserver
