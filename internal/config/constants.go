package config

const SourceFileExt = ".lamb"

// SourceFileExtensions are all recognized program file extensions
var SourceFileExtensions = []string{".lamb", ".sexp", ".txt"}

// DefaultSignatureFile is looked up next to a program file when no
// --dsl flag is given.
const DefaultSignatureFile = "signature.yaml"

// DefaultPrimCost is the cost of a primitive absent from a signature's
// cost mapping.
const DefaultPrimCost = 100
