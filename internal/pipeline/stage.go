package pipeline

// Stage is one named step of the pipeline. Run mutates tu in place,
// appending to tu.Report and populating whichever tu field is that
// stage's output.
type Stage interface {
	Name() string
	Run(tu *TranslationUnit)
}
