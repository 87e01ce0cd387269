// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package archive renders poll tallies into immutable result artifacts.

# Naming

Artifacts are named

	<pollID>-<slug>-<YYYY-MM-DDTHH-mm-ss.SSS>.json

with the timestamp in UTC. Slug strips accents, drops everything outside
[A-Za-z0-9_ -], joins words with '-', and falls back to "untitled". Within one
Archiver the timestamps are strictly increasing, and storage creation is
exclusive, so two archives never share a name.

# Reasons

	ReasonEnded   // deactivation, replacement by another poll, or deletion
	ReasonUpdated // manual archive of the running poll
	ReasonLive    // export only; Live never stores anything

# Listing

List returns models.ResultFile entries sorted newest first, with a
humanized size and age. Get, Delete, and DownloadName accept only names that
parse as artifact names and reject everything else with models.ErrInvalidPath.
*/
package archive
