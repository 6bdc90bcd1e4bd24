// Package frame decodes input files into per-frame pixel buffers of a known
// layout and size, ready to be viewed with package bitmap.
package frame
