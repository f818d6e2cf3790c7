// Package templates parses template files and flattens their inheritance.
//
// A template file is read line by line. An optional first line
// "inherit <parent>" names the parent template. The css, js and blocks headers
// open head data and block sections; once the first body line is seen the rest
// of the file is the template body, read verbatim.
//
//	inherit base
//	css
//	page.css
//	blocks
//		item
//			<li>{label}: {href}</li>
//
//	<ul>{item}</ul>
//
// Resolve merges each template with its ancestors: head data and block
// templates are appended after the child's own, and the child body replaces
// every {content} token of the parent body.
package templates
