// Package seeds loads the initial datasets: the provincial GeoJSON exports
// for the map layers, then the demo users/posts/comments for the blog.
// Loaders are idempotent: every record kind has a content-level duplicate
// key that is checked before insert, and a single bad record never aborts
// the batch.
package seeds

func SeedAll(dataDir string) error {
	if err := SeedGeoData(dataDir); err != nil {
		return err
	}
	if err := SeedBlogData(dataDir); err != nil {
		return err
	}
	return nil
}
