package mongodb

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
)

var (
	tUUID       = reflect.TypeOf(uuid.UUID{})
	uuidSubtype = byte(0x04)
)

// MongoRegistry encodes uuid.UUID as BSON binary subtype 4 so ids are stored
// and indexed as native UUIDs instead of strings.
var MongoRegistry = func() *bsoncodec.Registry {
	r := bson.NewRegistry()
	r.RegisterTypeEncoder(tUUID, bsoncodec.ValueEncoderFunc(uuidEncodeValue))
	r.RegisterTypeDecoder(tUUID, bsoncodec.ValueDecoderFunc(uuidDecodeValue))
	return r
}()

func uuidEncodeValue(ec bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tUUID {
		return bsoncodec.ValueEncoderError{Name: "uuidEncodeValue", Types: []reflect.Type{tUUID}, Received: val}
	}
	b := val.Interface().(uuid.UUID)
	return vw.WriteBinaryWithSubtype(b[:], uuidSubtype)
}

func uuidDecodeValue(dc bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tUUID {
		return bsoncodec.ValueDecoderError{Name: "uuidDecodeValue", Types: []reflect.Type{tUUID}, Received: val}
	}

	var parsed uuid.UUID
	switch vrType := vr.Type(); vrType {
	case bson.TypeBinary:
		data, subtype, err := vr.ReadBinary()
		if err != nil {
			return err
		}
		if subtype != uuidSubtype {
			return fmt.Errorf("unsupported binary subtype %v for UUID", subtype)
		}
		parsed, err = uuid.FromBytes(data)
		if err != nil {
			return err
		}
	case bson.TypeString:
		str, err := vr.ReadString()
		if err != nil {
			return err
		}
		parsed, err = uuid.Parse(str)
		if err != nil {
			return err
		}
	case bson.TypeNull:
		if err := vr.ReadNull(); err != nil {
			return err
		}
	case bson.TypeUndefined:
		if err := vr.ReadUndefined(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cannot decode %v into a UUID", vrType)
	}

	val.Set(reflect.ValueOf(parsed))
	return nil
}
