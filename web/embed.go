package web

import "embed"

// StaticFS embeds the expense form page and its assets.
//
//go:embed static/*
var StaticFS embed.FS
