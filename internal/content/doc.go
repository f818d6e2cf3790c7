// Package content parses content files into pages.
//
// A content file starts with a config section of key: value lines, followed
// by optional css, js and blocks sections and the page body:
//
//	config
//		path: about/index.html
//		linkName: about
//		title: About
//		template: page
//	blocks
//	item
//		label
//			About
//		href
//			/about
//	item
//		Home
//
//	# About us
//
// Inside blocks, indentation is relative to the first line: the outer level
// names a block, one level deeper names a part, and anything deeper is part
// text. A part without text takes its name as its text.
package content
