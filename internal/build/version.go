package build

// Version is the compiler version recorded in cache manifests and
// reported by --version. Cache entries are reusable across patch
// releases only; see FSCache.
const Version = "0.3.1"
