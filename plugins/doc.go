// Package plugins hosts QC suite subpackages. Each subpackage builds a
// qc.Suite from the stable pkg facades; none of them may reach into the
// internal tree. This file carries no runtime code, it anchors the
// architectural guard test that lives alongside it.
package plugins
