// Package formats provides decoders for the playground's asset formats:
// the Wavefront-style text mesh format and Radiance RGBE (.hdr) images.
package formats

// Note: the mesh parser lives in obj.go, the RGBE decoder in hdr.go.
