package mercury

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// hermes header, hand-coded from the wire schema:
// uri = 1, content_type = 2, method = 3, status_code = 4 (sint32),
// user_fields = 6 (key = 1, value = 2).

type userField struct {
	Key   string
	Value []byte
}

type header struct {
	Uri         string
	ContentType string
	Method      string
	StatusCode  *int32
	UserFields  []userField
}

func marshalHeader(h *header) []byte {
	var b []byte
	if len(h.Uri) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, h.Uri)
	}
	if len(h.ContentType) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, h.ContentType)
	}
	if len(h.Method) > 0 {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, h.Method)
	}
	if h.StatusCode != nil {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(*h.StatusCode)))
	}
	for _, field := range h.UserFields {
		var fb []byte
		fb = protowire.AppendTag(fb, 1, protowire.BytesType)
		fb = protowire.AppendString(fb, field.Key)
		fb = protowire.AppendTag(fb, 2, protowire.BytesType)
		fb = protowire.AppendBytes(fb, field.Value)

		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendBytes(b, fb)
	}
	return b
}

func unmarshalHeader(b []byte) (*header, error) {
	h := new(header)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			val, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			h.Uri = val
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			val, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			h.ContentType = val
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			val, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			h.Method = val
			b = b[n:]
		case num == 4 && typ == protowire.VarintType:
			val, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			status := int32(protowire.DecodeZigZag(val))
			h.StatusCode = &status
			b = b[n:]
		case num == 6 && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			field, err := unmarshalUserField(val)
			if err != nil {
				return nil, err
			}
			h.UserFields = append(h.UserFields, field)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return h, nil
}

func unmarshalUserField(b []byte) (userField, error) {
	var field userField
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return field, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			val, n := protowire.ConsumeString(b)
			if n < 0 {
				return field, protowire.ParseError(n)
			}
			field.Key = val
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return field, protowire.ParseError(n)
			}
			field.Value = append([]byte(nil), val...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return field, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return field, nil
}
