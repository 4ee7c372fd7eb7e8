package tracer

// A contiguous range [Start, End) of rays in a batch that is traced by a
// single worker.
type Block struct {
	Start int
	End   int
}

// Len returns the number of rays in the block.
func (b Block) Len() int {
	return b.End - b.Start
}

// The BlockScheduler interface is implemented by all block scheduling
// algorithms.
type BlockScheduler interface {
	// Split a batch of rayCount rays into blocks for the given number
	// of workers.
	Schedule(rayCount, workers int) []Block
}

// The fixed scheduler splits a batch into blocks of the same size. The last
// block may be shorter.
type fixedScheduler struct {
	blockSize int
}

// Create a scheduler that emits blocks of blockSize rays.
func NewFixedScheduler(blockSize int) BlockScheduler {
	return &fixedScheduler{blockSize: blockSize}
}

func (sch *fixedScheduler) Schedule(rayCount, workers int) []Block {
	return splitBlocks(rayCount, sch.blockSize)
}

// The balanced scheduler splits a batch into blocksPerWorker blocks for each
// worker. Hit costs vary wildly between rays so handing out several smaller
// blocks per worker keeps all workers busy until the batch is done.
type balancedScheduler struct {
	blocksPerWorker int
}

// Create a scheduler that assigns blocksPerWorker blocks to each worker.
func NewBalancedScheduler(blocksPerWorker int) BlockScheduler {
	if blocksPerWorker < 1 {
		blocksPerWorker = 1
	}
	return &balancedScheduler{blocksPerWorker: blocksPerWorker}
}

func (sch *balancedScheduler) Schedule(rayCount, workers int) []Block {
	if workers < 1 {
		workers = 1
	}
	blockCount := workers * sch.blocksPerWorker
	blockSize := (rayCount + blockCount - 1) / blockCount
	return splitBlocks(rayCount, blockSize)
}

func splitBlocks(rayCount, blockSize int) []Block {
	if rayCount <= 0 {
		return nil
	}
	if blockSize < 1 {
		blockSize = 1
	}

	blocks := make([]Block, 0, (rayCount+blockSize-1)/blockSize)
	for start := 0; start < rayCount; start += blockSize {
		end := start + blockSize
		if end > rayCount {
			end = rayCount
		}
		blocks = append(blocks, Block{Start: start, End: end})
	}
	return blocks
}
