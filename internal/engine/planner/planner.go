// Package planner partitions a file's byte length into the chunk
// descriptors the Transfer Core fans out to chunk tasks (spec.md §4.3).
package planner

import (
	"github.com/surge-downloader/fastdl/internal/engine/types"
)

const mib = 1 << 20

// Plan returns a non-empty ordered sequence of chunks covering
// [0, fileSize-1]. Non-range servers and zero-length files collapse to
// a single synthetic chunk; otherwise the file is split into
// min(connections, ceil(fileSize/preferred)) contiguous chunks, with
// any remainder folded into the last chunk.
func Plan(fileSize int64, supportsRanges bool, cfg types.Config) []types.Chunk {
	if !supportsRanges || fileSize == 0 {
		end := fileSize - 1
		if end < 0 {
			end = 0
		}
		return []types.Chunk{{Start: 0, End: end, Size: fileSize}}
	}

	preferred := int64(cfg.ChunkSizeMB) * mib
	if preferred <= 0 {
		preferred = mib
	}

	numByPreferred := ceilDiv(fileSize, preferred)
	num := cfg.Connections
	if numByPreferred < num {
		num = numByPreferred
	}
	if num < 1 {
		num = 1
	}

	base := fileSize / int64(num)
	remainder := fileSize % int64(num)

	chunks := make([]types.Chunk, num)
	start := int64(0)
	for i := 0; i < num; i++ {
		end := start + base - 1
		if i == num-1 {
			end += remainder
		}
		chunks[i] = types.Chunk{Start: start, End: end, Size: end - start + 1}
		start = end + 1
	}
	return chunks
}

func ceilDiv(a, b int64) int {
	if b <= 0 {
		return 1
	}
	return int((a + b - 1) / b)
}
