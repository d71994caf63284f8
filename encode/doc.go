// Package encode serializes structured documents into the HTML wire
// format sent for translation.
//
// A document becomes
//
//	<html>
//	  <head><meta name="_id" content="..."> ... <meta name="version" content="3"></head>
//	  <body><div class="{_type}" id="{_id}" data-type="object">...</div></body>
//	</html>
//
// String fields become <span class="{field}">, arrays become
// <div class="{field}" data-type="array"> and object fields are wrapped
// in <div class="{field}" data-level="field">.  Rich text blocks render
// as paragraphs, headings, block quotes and lists whose ids are the block
// keys.
package encode
