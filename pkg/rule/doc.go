// Package rule defines the rule data model and the repository that loads
// rule definitions from a rules directory.
//
// # Directory Layout
//
// A rules directory contains two subtrees:
//
//	<rules_root>/enabled/**   rules active by default
//	<rules_root>/disabled/**  rules parsed but inactive
//
// Both subtrees hold rule files in either the structured YAML format or
// the annotated expression format (.a):
//
//	id: akao:rule::structure:class_separation:v1
//	name: Class Separation
//	category: structure
//	severity: warning
//	applies_to: ["*.go"]
//	phases: ["compliance"]
//	expression: |
//	  ...
//
//	# id: akao:rule::testing:coverage:v1
//	# name: Coverage Enforcement
//	# severity: error
//	# @phases: ["compliance"]
//	<expression body>
//
// # Scanning
//
// Repository.Scan replaces the loaded set wholesale. Parse failures for
// individual files are non-fatal: the file is skipped and reported, the
// scan continues. Enable/Disable mutate only the in-memory enabled set.
package rule
