// Package library is a local media library that imports remote images.
//
// Files are written atomically under <root>/YYYY/MM/ with a square
// thumbnail beside each one. JPEG files get the plain-text description in
// their EXIF ImageDescription. Attachment records, including the post a
// file belongs to and the post's featured image, live in SQLite.
//
// Library implements resolver.Importer:
//
//	store, _ := library.OpenStore(ctx, filepath.Join(dir, "library.db"))
//	files, _ := library.NewFileStore(dir)
//	lib := library.New(store, files, library.Options{Concurrency: 3, ThumbnailSize: 150}, log)
//	result, err := lib.Import(ctx, req)
package library
