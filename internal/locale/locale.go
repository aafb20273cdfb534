// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package locale holds the user-visible strings of sopchat in Indonesian
// (the default) and English, registered with golang.org/x/text/message.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a translatable string.
type Key string

const (
	Welcome          Key = "welcome"
	Verifying        Key = "verifying"
	Unavailable      Key = "unavailable"
	VerifyError      Key = "verify-error"
	LoadFailed       Key = "load-failed"
	LoadingFile      Key = "loading-file"
	BackendError     Key = "backend-error"
	Sending          Key = "sending"
	Send             Key = "send"
	Placeholder      Key = "placeholder"
	CaptureWarning   Key = "capture-warning"
	ViewerHint       Key = "viewer-hint"
	FilesHeader      Key = "files-header"
	Copied           Key = "copied"
	CopyFailed       Key = "copy-failed"
	BinaryContent    Key = "binary-content"
	InitInProgress   Key = "init-in-progress"
	ChatHelp         Key = "chat-help"
	HistoryCleared   Key = "history-cleared"
	PersistFailed    Key = "persist-failed"
	FileTooLarge     Key = "file-too-large"
	UnexpectedStatus Key = "unexpected-status"
	RoleUser         Key = "role-user"
	RoleAssistant    Key = "role-assistant"
	ImagePreview     Key = "image-preview"
)

var (
	Indonesian = language.Indonesian
	English    = language.English
)

var translations = map[language.Tag]map[Key]string{
	language.Indonesian: {
		Welcome:          "Halo! Saya QI Lab Assistant. Ada yang bisa saya bantu?",
		Verifying:        "Memverifikasi...",
		Unavailable:      "File tidak tersedia",
		VerifyError:      "Error memverifikasi file",
		LoadFailed:       "Gagal memuat file: %s",
		LoadingFile:      "Memuat file...",
		BackendError:     "**Terjadi Kesalahan**\nMaaf, proses tidak dapat dilanjutkan. Silakan coba lagi atau hubungi admin.",
		Sending:          "Mengirim...",
		Send:             "Kirim",
		Placeholder:      "Ketik pesan...",
		CaptureWarning:   "Tangkapan layar, cetak dan simpan tidak diizinkan untuk dokumen ini.",
		ViewerHint:       "esc/q tutup • ↑/↓ gulir",
		FilesHeader:      "Dokumen SOP",
		Copied:           "Tersalin!",
		CopyFailed:       "Gagal menyalin: %s",
		BinaryContent:    "konten biner (%s) tidak dapat ditampilkan",
		InitInProgress:   "Memuat riwayat...",
		ChatHelp:         "enter kirim • tab pilih file • ctrl+y salin kode • ctrl+c keluar",
		HistoryCleared:   "Riwayat dihapus.",
		PersistFailed:    "Riwayat tidak dapat disimpan: %s",
		FileTooLarge:     "file melebihi batas %s",
		UnexpectedStatus: "status HTTP %d",
		RoleUser:         "Anda",
		RoleAssistant:    "Asisten",
		ImagePreview:     "Pratinjau gambar tidak tersedia di terminal. Alamat:",
	},
	language.English: {
		Welcome:          "Hello! I'm the QI Lab Assistant. How can I help you?",
		Verifying:        "Verifying...",
		Unavailable:      "File not available",
		VerifyError:      "Error verifying file",
		LoadFailed:       "Failed to load file: %s",
		LoadingFile:      "Loading file...",
		BackendError:     "**An Error Occurred**\nSorry, the request could not be completed. Please try again or contact the admin.",
		Sending:          "Sending...",
		Send:             "Send",
		Placeholder:      "Type a message...",
		CaptureWarning:   "Screenshots, printing and saving are not allowed for this document.",
		ViewerHint:       "esc/q close • ↑/↓ scroll",
		FilesHeader:      "SOP documents",
		Copied:           "Copied!",
		CopyFailed:       "Copy failed: %s",
		BinaryContent:    "binary content (%s) cannot be displayed",
		InitInProgress:   "Loading history...",
		ChatHelp:         "enter send • tab select file • ctrl+y copy code • ctrl+c quit",
		HistoryCleared:   "History cleared.",
		PersistFailed:    "History could not be saved: %s",
		FileTooLarge:     "file exceeds the %s limit",
		UnexpectedStatus: "HTTP status %d",
		RoleUser:         "You",
		RoleAssistant:    "Assistant",
		ImagePreview:     "Image preview is not available in a terminal. Location:",
	},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Indonesian))
	for tag, entries := range translations {
		for key, msg := range entries {
			if err := b.SetString(tag, string(key), msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Printer formats localized strings for one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a Printer for the given BCP 47 name. Unknown or empty names
// fall back to Indonesian.
func New(name string) *Printer {
	tag := Match(name)
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Match maps name onto a supported language.
func Match(name string) language.Tag {
	if name == "" {
		return language.Indonesian
	}
	parsed, err := language.Parse(name)
	if err != nil {
		return language.Indonesian
	}
	matcher := language.NewMatcher([]language.Tag{language.Indonesian, language.English})
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return language.Indonesian
	}
	return []language.Tag{language.Indonesian, language.English}[idx]
}

// Tag returns the language in use.
func (p *Printer) Tag() language.Tag { return p.tag }

// T returns the string for key formatted with args.
func (p *Printer) T(key Key, args ...any) string {
	return p.p.Sprintf(string(key), args...)
}
