// Package nameclass implements qualified names and the RELAX NG name-class
// algebra used to match element and attribute names against name patterns.
package nameclass

// QName is a qualified name with a resolved namespace URI and a local part.
type QName struct {
	Namespace string
	Local     string
}

// N builds a QName from a namespace URI and local part.
func N(namespace, local string) QName {
	return QName{Namespace: namespace, Local: local}
}

// Local builds a QName in no namespace.
func Local(local string) QName {
	return QName{Local: local}
}

// String returns the QName in {namespace}local form, or just local if the
// name is in no namespace.
func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return "{" + q.Namespace + "}" + q.Local
}

// IsZero reports whether the QName is the zero value.
func (q QName) IsZero() bool {
	return q.Namespace == "" && q.Local == ""
}
