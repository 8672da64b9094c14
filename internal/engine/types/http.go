package types

// UserAgent identifies the engine to servers it downloads from
// (spec.md §6).
const UserAgent = "FastDL-Core/1.0 (High-Performance Downloader)"
