// Package corpus walks a directory of markup or story files and yields each
// file as a Document whose ID is the file name without its extension.
//
// Files are visited in lexical order so repeated runs over the same tree see
// documents in the same sequence. Content is decoded as UTF-8 with invalid
// bytes replaced by U+FFFD; a file that cannot be read aborts the walk.
package corpus
