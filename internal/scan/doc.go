// Package scan discovers the files and directories to embed in a generated
// installer. It resolves ordered include paths against a source root,
// walks included directories while pruning excluded subtrees, and skips
// binary content so only text files end up embedded.
package scan
