// Package jacl is the read-only query layer over a parsed JACL document.
//
// # Usage
//
//	doc, err := jacl.Parse(src)
//	if err != nil {
//	    // err is a *parser.SourceError; call Render for a diagnostic
//	}
//	server, _ := doc.Root().Entry("server")
//	port, _ := server.Property("port")
//
// Objects and Tables expose entries; Objects and Maps expose properties.
// Views never modify the tree they wrap.
package jacl
