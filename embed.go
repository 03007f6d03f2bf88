package photoengine

import "embed"

// EmbeddedAssets contains static assets shipped with the engine:
// photoengine.js, photoengine.css, favicon.svg
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
