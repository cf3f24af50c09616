package model

import (
	"fmt"
	"strings"
)

type BlockType string

const (
	BlockTypeContainer  BlockType = "CONTAINER"
	BlockTypeSection    BlockType = "SECTION"
	BlockTypeGrid       BlockType = "GRID"
	BlockTypeFlexRow    BlockType = "FLEX_ROW"
	BlockTypeFlexColumn BlockType = "FLEX_COLUMN"

	BlockTypeText    BlockType = "TEXT"
	BlockTypeHeading BlockType = "HEADING"
	BlockTypeImage   BlockType = "IMAGE"
	BlockTypeButton  BlockType = "BUTTON"
	BlockTypeVideo   BlockType = "VIDEO"
	BlockTypeSpacer  BlockType = "SPACER"
	BlockTypeDivider BlockType = "DIVIDER"
	BlockTypeHTML    BlockType = "HTML"
)

var allBlockTypes = []BlockType{
	BlockTypeContainer,
	BlockTypeSection,
	BlockTypeGrid,
	BlockTypeFlexRow,
	BlockTypeFlexColumn,
	BlockTypeText,
	BlockTypeHeading,
	BlockTypeImage,
	BlockTypeButton,
	BlockTypeVideo,
	BlockTypeSpacer,
	BlockTypeDivider,
	BlockTypeHTML,
}

// IsContainer reports whether blocks of type t may hold children.
func IsContainer(t BlockType) bool {
	switch t {
	case BlockTypeContainer, BlockTypeSection, BlockTypeGrid, BlockTypeFlexRow, BlockTypeFlexColumn:
		return true
	default:
		return false
	}
}

// BlockTypes returns the closed set of known block types, containers first.
func BlockTypes() []BlockType {
	return append([]BlockType(nil), allBlockTypes...)
}

// ParseBlockType normalizes user input ("flex-row", "Flex_Row") to a known type.
func ParseBlockType(s string) (BlockType, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	for _, t := range allBlockTypes {
		if string(t) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid block type: %q", s)
}
