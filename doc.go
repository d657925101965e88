// Package arsc parses and edits Android's compiled binary resource
// container: resources.arsc's resource table and the compiled XML format
// used for AndroidManifest.xml and layout/menu/etc. resources inside an
// APK. It round-trips the chunk tree byte-for-byte and supports two
// write-time transforms, string-pool deduplication and stripping of
// public-visibility flags.
//
// Loading the bytes out of a zip archive, and any higher-level semantics
// of resource resolution, are left to the caller.
package arsc
