/*
Package llsd reads and writes structured documents in four interchangeable
encodings: a tagged binary format, XML, JSON and a compact notation.

A document owns a single root value. Values are one of eleven kinds:
undefined, boolean, 32-bit integer, real, string, uuid, date, uri, binary,
array and map. The types package defines them, and the nav package reads and
rewrites trees of values with dotted paths.

The functions of this package use the default configuration of each codec.
Callers needing other quotas or options use the codec packages directly:

	doc, err := binary.NewDecoder().WithMaxDepth(16).Decode(data)

Binary

The binary encoding starts with the magic "llsd" and writes each value as a
one byte tag followed by a big-endian payload. It is the only encoding that
keeps every value bit for bit, and the one used by the store package.

XML

The XML encoding wraps the root value in an <llsd> element. Every kind has its
own element, so the encoding is lossless.

JSON

JSON has fewer kinds than a document. Uuids, dates, uris and binary payloads
are written as strings unless type preservation is enabled, in which case they
are written as {"__type": kind, "value": lexical} objects.

Notation

The notation is a terse text encoding where each value is introduced by a sigil:

	{'name':'alice','age':i30,'id':u550e8400-e29b-41d4-a716-446655440000}
*/
package llsd
