package pak

// Source adapts an Archive to shader lookups, satisfying
// gpu.ShaderSource.
type Source struct {
	Archive *Archive
}

// Lookup returns the named shader binary, decompressed.
func (s Source) Lookup(name string) ([]byte, error) {
	return s.Archive.ReadAll(name)
}
