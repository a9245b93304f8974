package chunk

// SpacesPerIndent is the project-wide number of columns one indent level
// occupies. It is a plain constant, not a singleton, per the source's design
// notes. The cmd package's yaml `indent` value and --indent flag are read
// but do not change it.
const SpacesPerIndent = 2

// OverflowCharCost is charged once per column a rendered line exceeds the
// page width. It must dominate any practical sum of rule and span costs so
// that a solution which fits the page width strictly beats one that doesn't,
// while an unfit solution is still comparable (the search never fails).
const OverflowCharCost = 10000

// Chunk is one unit of formatted output: text plus the metadata the search
// engine needs to decide whether to break a line after it.
//
// A Chunk's Rule field must never change once the chunk has been handed to a
// LineSplitter. Rule is nil only for the batch's final sentinel chunk.
type Chunk struct {
	Text string
	Rule Rule
	Spans []*Span

	// BlockChunks is a possibly-empty, ordered, self-contained batch (itself
	// terminated by a sentinel chunk) to be formatted by a recursive
	// sub-splitter when this chunk's line is too long to inline it.
	BlockChunks []Chunk

	// SpaceWhenUnsplit: if this chunk's split collapses, does a single space
	// separate it from what follows?
	SpaceWhenUnsplit bool

	// IsDouble: when this chunk splits, emit two line endings instead of one.
	IsDouble bool

	// FlushLeft: ignore indentation on the line following this chunk's split.
	FlushLeft bool

	// IsHardSplit marks a chunk whose split is unconditional, either because
	// its Rule is a *HardSplitRule or because rule preemption hardened it.
	IsHardSplit bool

	// SelectionStart/SelectionEnd are optional byte offsets within Text that
	// the caller wants tracked through rendering. Nil means "not tracked".
	SelectionStart *int
	SelectionEnd   *int

	// UnsplitBlockLength is the horizontal width BlockChunks would
	// contribute if rendered inline (no split).
	UnsplitBlockLength int

	// Nesting is the chunk's expression-nesting depth, already flattened
	// (gaps removed, ranks preserved) by the caller (writer.LineWriter) per
	// the batch it belongs to.
	Nesting int

	// AbsoluteIndent is the indentation column (in indent units, not
	// columns) this chunk begins a line at, if it does. It is an input
	// computed upstream of the splitter; LinePrefix.Split consumes it
	// directly rather than re-deriving it from Nesting.
	AbsoluteIndent int
}

// Sentinel returns the final, text-and-rule-free chunk every batch must end
// with, per the splitter's input contract.
func Sentinel() Chunk {
	return Chunk{}
}

// IsSentinel reports whether c is (or behaves as) the terminal chunk of a
// batch: no rule, empty text, no block.
func (c *Chunk) IsSentinel() bool {
	return c.Rule == nil
}
