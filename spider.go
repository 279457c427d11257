// Package spider provides a web-crawl orchestration engine. Given a seed
// URI it repeatedly fetches resources, extracts candidate links, applies
// inclusion and exclusion policy and schedules unvisited links until the
// frontier is exhausted, a download limit is reached or a stop is requested.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, redis/).
package spider
