// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match assigns content files to layout templates and to output
// positions.
//
// Key functions:
//   - ExtractKeywords: filename to keyword tokens
//   - Classify: filename to structural category
//   - Score: content/template affinity
//   - SelectBestTemplate: pick a template for one content file
//   - AssignOrdinals: case-folded alphabetical positions
//   - BuildPlan, PairOutputs: whole-project assignment
//
// Every function is pure. The keyword, category and synonym tables are
// read-only package data.
package match
