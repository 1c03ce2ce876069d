package dynamodb

import (
	"fmt"
	"time"

	"funder/domain/shared"
	"funder/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Key layout:
//
//	PK     ENTITY#<type>#<id>
//	SK     DOCUMENT
//	GSI1PK FOR#<parent>      (entities with a parent only)
//	GSI1SK <type>#<id>
const (
	documentSK   = "DOCUMENT"
	entityPrefix = "ENTITY#"
	parentPrefix = "FOR#"
)

// BuildEntityPK builds the partition key of an entity
func BuildEntityPK(tag, id string) string {
	return fmt.Sprintf("%s%s#%s", entityPrefix, tag, id)
}

// BuildParentPK builds the index key listing a parent's children
func BuildParentPK(parent string) string {
	return parentPrefix + parent
}

// entityItem is the fixed part of a stored entity. The scalar fields of the
// document are stored next to it as attributes named by their JSON keys.
type entityItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	EntityType string `dynamodbav:"EntityType"`
	EntityID   string `dynamodbav:"EntityID"`
	Document   string `dynamodbav:"Document"`
	Hash       string `dynamodbav:"Hash"`
	StoredAt   string `dynamodbav:"StoredAt"`
}

type parented interface {
	Parent() string
}

// marshalEntity builds the item stored for e
func marshalEntity(e shared.Identified, storedAt time.Time) (map[string]types.AttributeValue, error) {
	item := entityItem{
		PK:         BuildEntityPK(e.TypeTag(), e.ID()),
		SK:         documentSK,
		EntityType: e.TypeTag(),
		EntityID:   e.ID(),
		Document:   e.JSON(),
		StoredAt:   utils.FormatTime(storedAt),
	}
	if h, ok := e.(interface{ Hash() uint64 }); ok {
		item.Hash = fmt.Sprintf("%016x", h.Hash())
	}
	if p, ok := e.(parented); ok && p.Parent() != "" {
		item.GSI1PK = BuildParentPK(p.Parent())
		item.GSI1SK = fmt.Sprintf("%s#%s", e.TypeTag(), e.ID())
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, err
	}

	// scalar columns; arrays stay inside Document
	for key, value := range e.Data() {
		if key == shared.TypeKey {
			continue
		}
		if s, ok := value.(string); ok {
			av[key] = &types.AttributeValueMemberS{Value: s}
		}
	}
	return av, nil
}

// ItemRecord is a shared.Record over a stored item
type ItemRecord map[string]types.AttributeValue

// HasField reports whether name is present and not NULL
func (r ItemRecord) HasField(name string) bool {
	av, ok := r[name]
	if !ok {
		return false
	}
	_, null := av.(*types.AttributeValueMemberNULL)
	return !null
}

// ReadString reads a string or number attribute as text
func (r ItemRecord) ReadString(name string) string {
	switch av := r[name].(type) {
	case *types.AttributeValueMemberS:
		return av.Value
	case *types.AttributeValueMemberN:
		return av.Value
	}
	return ""
}

// ReadInt reads a numeric attribute
func (r ItemRecord) ReadInt(name string) int {
	return int(r.ReadInt64(name))
}

// ReadInt64 reads a numeric attribute
func (r ItemRecord) ReadInt64(name string) int64 {
	var n int64
	if !r.HasField(name) {
		return 0
	}
	if err := attributevalue.Unmarshal(r[name], &n); err != nil {
		return 0
	}
	return n
}

// ReadBool reads a boolean attribute
func (r ItemRecord) ReadBool(name string) bool {
	var b bool
	if !r.HasField(name) {
		return false
	}
	if err := attributevalue.Unmarshal(r[name], &b); err != nil {
		return false
	}
	return b
}

// ReadDecimal reads a decimal stored as a string or number
func (r ItemRecord) ReadDecimal(name string) decimal.Decimal {
	d, err := decimal.NewFromString(r.ReadString(name))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ReadTime reads a timestamp, or the zero time when absent
func (r ItemRecord) ReadTime(name string) time.Time {
	if t := r.ReadTimeOrNil(name); t != nil {
		return *t
	}
	return time.Time{}
}

// ReadTimeOrNil reads a timestamp, or nil when absent or unparseable
func (r ItemRecord) ReadTimeOrNil(name string) *time.Time {
	s := r.ReadString(name)
	if s == "" {
		return nil
	}
	t, err := utils.ParseTime(s)
	if err != nil {
		return nil
	}
	return &t
}

var _ shared.Record = ItemRecord(nil)
