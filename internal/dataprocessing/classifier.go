package dataprocessing

import "strings"

// FileKind is the role a file plays in a sample directory.
type FileKind int

const (
	KindUnclassified FileKind = iota
	KindCNV
	KindMutation
)

func (k FileKind) String() string {
	switch k {
	case KindCNV:
		return "cnv"
	case KindMutation:
		return "mutation"
	default:
		return "unclassified"
	}
}

// Classifier decides a file's kind from its name.
type Classifier interface {
	Classify(name string) FileKind
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(name string) FileKind

func (f ClassifierFunc) Classify(name string) FileKind { return f(name) }

// NameClassifier applies the GDC download naming convention. Matching is
// case-sensitive and the CNV rule is checked first.
type NameClassifier struct{}

func (NameClassifier) Classify(name string) FileKind {
	switch {
	case strings.Contains(name, "Copy_Number_Variation"):
		return KindCNV
	case strings.Contains(name, "Simple_Nucleotide_Variation"), strings.HasSuffix(name, ".maf"):
		return KindMutation
	default:
		return KindUnclassified
	}
}
