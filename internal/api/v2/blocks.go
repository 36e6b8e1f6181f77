package v2

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Sesame-Disk/sesamefs/internal/chunker"
	"github.com/Sesame-Disk/sesamefs/internal/config"
	"github.com/Sesame-Disk/sesamefs/internal/storage"
	"github.com/gin-gonic/gin"
)

// BlockHandler handles block-level API operations
type BlockHandler struct {
	blockStore *storage.BlockStore
	config     *config.Config
}

// RegisterBlockRoutes registers the block API routes
func RegisterBlockRoutes(rg *gin.RouterGroup, blockStore *storage.BlockStore, cfg *config.Config) {
	h := &BlockHandler{
		blockStore: blockStore,
		config:     cfg,
	}

	blocks := rg.Group("/blocks")
	{
		// Check which blocks exist (for deduplication and resume)
		blocks.POST("/check", h.CheckBlocks)

		// Upload a single block
		blocks.POST("/upload", h.UploadBlock)

		// Upload a stream, splitting it into content-defined blocks
		// server-side and storing each one
		blocks.POST("/upload-stream", h.UploadStream)

		// Upload multiple already-hashed blocks in one request, for a
		// client that has already chunked locally (e.g. resuming an
		// interrupted upload-stream for only the blocks /check reported
		// missing)
		blocks.POST("/upload-batch", h.UploadBatch)

		// Stream back a manifest's blocks concatenated, in order, the
		// way restoring a backup from its chunk manifest would
		blocks.POST("/restore", h.RestoreManifest)

		// Download a block by hash
		blocks.GET("/:hash", h.DownloadBlock)

		// Check if a single block exists
		blocks.HEAD("/:hash", h.BlockExists)
	}
}

// CheckBlocksRequest is the request body for checking blocks
type CheckBlocksRequest struct {
	Hashes []string `json:"hashes" binding:"required"`
}

// CheckBlocksResponse is the response for the check blocks endpoint
type CheckBlocksResponse struct {
	// Existing contains hashes of blocks that already exist
	Existing []string `json:"existing"`
	// Missing contains hashes of blocks that need to be uploaded
	Missing []string `json:"missing"`
}

// CheckBlocks checks which blocks from a list already exist
// POST /api/v2/blocks/check
// This is the key endpoint for deduplication and resumable uploads
func (h *BlockHandler) CheckBlocks(c *gin.Context) {
	var req CheckBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if len(req.Hashes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hashes array is required"})
		return
	}

	// Limit the number of hashes per request
	if len(req.Hashes) > 10000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many hashes, maximum is 10000"})
		return
	}

	// Check blocks in parallel for better performance
	existsMap, err := h.blockStore.CheckBlocksParallel(c.Request.Context(), req.Hashes, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check blocks"})
		return
	}

	// Separate into existing and missing
	var existing, missing []string
	for _, hash := range req.Hashes {
		if existsMap[hash] {
			existing = append(existing, hash)
		} else {
			missing = append(missing, hash)
		}
	}

	c.JSON(http.StatusOK, CheckBlocksResponse{
		Existing: existing,
		Missing:  missing,
	})
}

// UploadBlockResponse is the response after uploading a block
type UploadBlockResponse struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
	New  bool   `json:"new"` // true if this was a new block, false if it already existed
}

// UploadBlock uploads a single block
// POST /api/v2/blocks/upload
// The block content is sent in the request body
// The hash is computed server-side and verified
func (h *BlockHandler) UploadBlock(c *gin.Context) {
	// Check content length
	if c.Request.ContentLength <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content length required"})
		return
	}

	// Check against maximum block size
	maxSize := h.config.Chunking.Adaptive.AbsoluteMax
	if c.Request.ContentLength > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "block too large",
			"max_size": maxSize,
		})
		return
	}

	// Read the block data
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read block data"})
		return
	}

	if int64(len(data)) > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "block too large",
			"max_size": maxSize,
		})
		return
	}

	// Compute hash
	hashBytes := sha256.Sum256(data)
	hash := hex.EncodeToString(hashBytes[:])

	// Optional: Verify client-provided hash if present
	clientHash := c.GetHeader("X-Block-Hash")
	if clientHash != "" && clientHash != hash {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "hash mismatch",
			"expected_hash": clientHash,
			"actual_hash":   hash,
		})
		return
	}

	// Check if block already exists
	exists, err := h.blockStore.BlockExists(c.Request.Context(), hash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check block existence"})
		return
	}

	if exists {
		// Block already exists (deduplication)
		c.JSON(http.StatusOK, UploadBlockResponse{
			Hash: hash,
			Size: int64(len(data)),
			New:  false,
		})
		return
	}

	// Store the block
	block := &storage.BlockData{
		Hash: hash,
		Data: data,
		Size: int64(len(data)),
	}

	_, err = h.blockStore.PutBlockData(c.Request.Context(), block)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store block"})
		return
	}

	c.JSON(http.StatusCreated, UploadBlockResponse{
		Hash: hash,
		Size: int64(len(data)),
		New:  true,
	})
}

// BatchBlockEntry is one already-hashed block in an UploadBatch request.
type BatchBlockEntry struct {
	Hash       string `json:"hash" binding:"required"`
	DataBase64 string `json:"data_base64" binding:"required"`
}

// UploadBatchRequest is the request body for uploading several blocks
// in one call.
type UploadBatchRequest struct {
	Blocks []BatchBlockEntry `json:"blocks" binding:"required"`
}

// UploadBatchResponse reports which of the requested blocks were
// stored successfully before any error, if one occurred.
type UploadBatchResponse struct {
	Stored []string `json:"stored"`
}

// UploadBatch stores several pre-chunked, pre-hashed blocks in one
// request. It is the batched counterpart to UploadBlock, used when a
// client has already split a file locally (for example, resuming an
// upload after /blocks/check reported several blocks missing) and
// wants to avoid a round trip per block.
// POST /api/v2/blocks/upload-batch
func (h *BlockHandler) UploadBatch(c *gin.Context) {
	var req UploadBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Blocks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blocks array is required"})
		return
	}
	if len(req.Blocks) > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many blocks, maximum is 1000"})
		return
	}

	maxSize := h.config.Chunking.Adaptive.AbsoluteMax
	blocks := make([]chunker.Block, 0, len(req.Blocks))
	for _, entry := range req.Blocks {
		data, err := base64.StdEncoding.DecodeString(entry.DataBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base64 data for hash " + entry.Hash})
			return
		}
		if int64(len(data)) > maxSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "block too large", "hash": entry.Hash, "max_size": maxSize})
			return
		}

		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != entry.Hash {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hash mismatch", "expected_hash": entry.Hash})
			return
		}

		blocks = append(blocks, chunker.Block{Hash: entry.Hash, Data: data, Size: int64(len(data))})
	}

	stored, err := h.blockStore.PutBlocks(c.Request.Context(), blocks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store blocks", "stored": stored})
		return
	}

	c.JSON(http.StatusCreated, UploadBatchResponse{Stored: stored})
}

// ChunkManifestEntry describes one content-defined chunk produced by
// splitting an uploaded stream.
type ChunkManifestEntry struct {
	Hash  string `json:"hash"`
	Size  int    `json:"size"`
	Level int    `json:"level"`
}

// UploadStreamResponse is the response after splitting and storing an
// uploaded stream.
type UploadStreamResponse struct {
	ManifestID string               `json:"manifest_id"`
	Size       int64                `json:"size"`
	Chunks     []ChunkManifestEntry `json:"chunks"`
}

// UploadStream uploads a stream of arbitrary size, splitting it into
// content-defined blocks using the configured chunking policy and
// storing each block individually, keyed by its own content hash.
// Unlike UploadBlock, the request body is not treated as a single
// unit: this is the entry point that actually exercises the
// content-defined chunking engine, the way a real backup client would
// push a file larger than a single block.
// POST /api/v2/blocks/upload-stream
func (h *BlockHandler) UploadStream(c *gin.Context) {
	if c.Request.ContentLength <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content length required"})
		return
	}

	maxSize := h.config.Chunking.Adaptive.AbsoluteMax
	if c.Request.ContentLength > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "stream too large",
			"max_size": maxSize,
		})
		return
	}

	buf := storage.NewSpillBufferWithConfig(storage.SpillBufferConfig{
		MemoryThreshold: 16 * 1024 * 1024,
		TempPrefix:      "sesamefs-upload-stream-",
	})
	defer buf.Close()

	receiveStart := time.Now()
	received, err := io.Copy(buf, io.LimitReader(c.Request.Body, maxSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to buffer stream"})
		return
	}
	receiveDuration := time.Since(receiveStart)
	if buf.Size() > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "stream too large",
			"max_size": maxSize,
		})
		return
	}

	source, err := buf.ChunkSource()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read buffered stream"})
		return
	}

	splitCfg, err := h.config.Chunking.Splitter.Splitter()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid chunking configuration"})
		return
	}

	splitBits := h.config.Chunking.Splitter.Bits
	if h.config.Chunking.Adaptive.Enabled && receiveDuration > 0 {
		ac := chunker.NewAdaptiveChunker(h.config.Chunking.Adaptive.ChunkerConfig())
		ac.SetSpeed(float64(received) / receiveDuration.Seconds())
		splitBits = ac.RecommendedBits()
	}

	sp, err := chunker.New(chunker.NewReaderSources(source), splitBits, splitCfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initialize splitter"})
		return
	}

	var manifest []ChunkManifestEntry
	var total int64
	for {
		chunk, err := sp.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "chunking failed"})
			return
		}

		sum := sha256.Sum256(chunk.Data)
		hash := hex.EncodeToString(sum[:])

		if _, err := h.blockStore.PutChunk(c.Request.Context(), hash, chunk); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store chunk"})
			return
		}

		manifest = append(manifest, ChunkManifestEntry{Hash: hash, Size: len(chunk.Data), Level: chunk.Level})
		total += int64(len(chunk.Data))
	}

	c.JSON(http.StatusCreated, UploadStreamResponse{
		ManifestID: uuid.NewString(),
		Size:       total,
		Chunks:     manifest,
	})
}

// DownloadBlock downloads a block by its hash
// GET /api/v2/blocks/:hash
func (h *BlockHandler) DownloadBlock(c *gin.Context) {
	hash := c.Param("hash")

	if len(hash) != 64 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hash format, expected 64 hex characters"})
		return
	}

	// Get the block
	data, err := h.blockStore.GetBlock(c.Request.Context(), hash)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "block not found"})
		return
	}

	// Set headers
	c.Header("Content-Type", "application/octet-stream")
	c.Header("X-Block-Hash", hash)

	c.Data(http.StatusOK, "application/octet-stream", data)
}

// RestoreManifestRequest is the request body for replaying a chunk
// manifest back into a single stream.
type RestoreManifestRequest struct {
	Hashes []string `json:"hashes" binding:"required"`
}

// RestoreManifest streams the blocks named by hashes back
// concatenated, in the order given, reconstructing the original file
// a prior UploadStream split into chunks. Each block is streamed
// straight from storage rather than loaded whole, so restoring a large
// manifest doesn't require buffering it in memory.
// POST /api/v2/blocks/restore
func (h *BlockHandler) RestoreManifest(c *gin.Context) {
	var req RestoreManifestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Hashes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hashes array is required"})
		return
	}

	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)

	for _, hash := range req.Hashes {
		reader, err := h.blockStore.GetBlockReader(c.Request.Context(), hash)
		if err != nil {
			// Headers are already flushed by the time a later block
			// fails, so the best we can do is stop writing; the client
			// detects a truncated stream from a short read.
			return
		}
		_, copyErr := io.Copy(c.Writer, reader)
		reader.Close()
		if copyErr != nil {
			return
		}
	}
}

// BlockExists checks if a block exists (HEAD request)
// HEAD /api/v2/blocks/:hash
func (h *BlockHandler) BlockExists(c *gin.Context) {
	hash := c.Param("hash")

	if len(hash) != 64 {
		c.Status(http.StatusBadRequest)
		return
	}

	exists, err := h.blockStore.BlockExists(c.Request.Context(), hash)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	if exists {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusNotFound)
	}
}
