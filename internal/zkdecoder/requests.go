package zkdecoder

import "github.com/jeffbean/zkproxy/internal/zkproto"

// decodeDataRequest dispatches a data request (xid already consumed, offset
// sitting right after the opcode) to its per-opcode parser, invoking
// exactly one Sink callback per request.
func (d *Decoder) decodeDataRequest(opcode zkproto.OpCode, buf []byte, offset *int) error {
	switch opcode {
	case zkproto.OpGetData:
		path, watch, err := d.decodePathWatch(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnGetDataRequest(path, watch)

	case zkproto.OpCreate, zkproto.OpCreate2, zkproto.OpCreateContainer, zkproto.OpCreateTTL:
		path, flags, err := d.decodeCreateRequest(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnCreateRequest(path, flags, opcode)

	case zkproto.OpSetData:
		path, err := d.decodeSetDataRequest(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnSetRequest(path)

	case zkproto.OpGetChildren, zkproto.OpGetChildren2:
		path, watch, err := d.decodePathWatch(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnGetChildrenRequest(path, watch, opcode == zkproto.OpGetChildren2)

	case zkproto.OpDelete:
		path, version, err := d.decodePathVersion(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnDeleteRequest(path, version)

	case zkproto.OpExists:
		path, watch, err := d.decodePathWatch(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnExistsRequest(path, watch)

	case zkproto.OpGetAcl:
		path, err := d.decodePathOnly(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnGetAclRequest(path)

	case zkproto.OpSetAcl:
		path, err := d.cursor.PeekString(buf, offset)
		if err != nil {
			return err
		}
		if err := d.cursor.SkipACLVector(buf, offset); err != nil {
			return err
		}
		version, err := d.cursor.PeekInt32(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnSetAclRequest(path, version)

	case zkproto.OpSync:
		path, err := d.decodePathOnly(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnSyncRequest(path)

	case zkproto.OpGetEphemerals:
		path, err := d.decodePathOnly(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnGetEphemeralsRequest(path)

	case zkproto.OpGetAllChildrenNumber:
		path, err := d.decodePathOnly(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnGetAllChildrenNumberRequest(path)

	case zkproto.OpCheck:
		path, version, err := d.decodePathVersion(buf, offset)
		if err != nil {
			return err
		}
		d.sink.OnCheckRequest(path, version)

	case zkproto.OpMulti:
		if err := d.decodeMultiRequest(buf, offset); err != nil {
			return err
		}
		d.sink.OnMultiRequest()

	case zkproto.OpReconfig:
		for i := 0; i < 3; i++ { // joining, leaving, new-members
			if err := d.cursor.SkipString(buf, offset); err != nil {
				return err
			}
		}
		if err := d.cursor.Skip(buf, offset, 8); err != nil { // config id
			return err
		}
		d.sink.OnReconfigRequest()

	case zkproto.OpSetWatches:
		if err := d.decodeSetWatchesBody(buf, offset); err != nil {
			return err
		}
		d.sink.OnSetWatchesRequest()

	case zkproto.OpCheckWatches, zkproto.OpRemoveWatches:
		path, watchType, err := d.decodePathVersion(buf, offset)
		if err != nil {
			return err
		}
		if opcode == zkproto.OpCheckWatches {
			d.sink.OnCheckWatchesRequest(path, watchType)
		} else {
			d.sink.OnRemoveWatchesRequest(path, watchType)
		}

	case zkproto.OpClose:
		d.sink.OnCloseRequest()

	case zkproto.OpPing:
		// Ping carries no body beyond the xid+opcode prefix already
		// consumed; reaching here means a Ping arrived with a
		// non-reserved xid, which the wire format permits.
		d.sink.OnPing()

	case zkproto.OpSetAuth:
		if err := d.cursor.Skip(buf, offset, 4); err != nil { // auth type
			return err
		}
		scheme, err := d.cursor.PeekString(buf, offset)
		if err != nil {
			return err
		}
		if err := d.cursor.SkipString(buf, offset); err != nil { // credential
			return err
		}
		d.sink.OnAuthRequest(scheme)

	default:
		return ErrUnknownOpcode
	}
	return nil
}

// decodePathOnly reads a request body that carries nothing but a path:
// GetAcl, Sync, GetEphemerals, and GetAllChildrenNumber all share this
// shape on the wire despite each dispatching to its own callback.
func (d *Decoder) decodePathOnly(buf []byte, offset *int) (string, error) {
	return d.cursor.PeekString(buf, offset)
}

func (d *Decoder) decodePathWatch(buf []byte, offset *int) (string, bool, error) {
	path, err := d.cursor.PeekString(buf, offset)
	if err != nil {
		return "", false, err
	}
	watch, err := d.cursor.PeekBool(buf, offset)
	if err != nil {
		return "", false, err
	}
	return path, watch, nil
}

func (d *Decoder) decodePathVersion(buf []byte, offset *int) (string, int32, error) {
	path, err := d.cursor.PeekString(buf, offset)
	if err != nil {
		return "", 0, err
	}
	version, err := d.cursor.PeekInt32(buf, offset)
	if err != nil {
		return "", 0, err
	}
	return path, version, nil
}

func (d *Decoder) decodeSetDataRequest(buf []byte, offset *int) (string, error) {
	path, err := d.cursor.PeekString(buf, offset)
	if err != nil {
		return "", err
	}
	if err := d.cursor.SkipString(buf, offset); err != nil { // data
		return "", err
	}
	if err := d.cursor.Skip(buf, offset, 4); err != nil { // version
		return "", err
	}
	return path, nil
}

func (d *Decoder) decodeCreateRequest(buf []byte, offset *int) (string, zkproto.CreateFlag, error) {
	path, err := d.cursor.PeekString(buf, offset)
	if err != nil {
		return "", 0, err
	}
	if err := d.cursor.SkipString(buf, offset); err != nil { // data
		return "", 0, err
	}
	if err := d.cursor.SkipACLVector(buf, offset); err != nil {
		return "", 0, err
	}
	flags, err := d.cursor.PeekInt32(buf, offset)
	if err != nil {
		return "", 0, err
	}
	return path, zkproto.CreateFlag(flags), nil
}

// decodeMultiRequest walks a Multi body's sequence of {op, done, err}
// headers, parsing the nested Create/SetData/Check body each non-done
// header introduces. Any other nested opcode is fatal.
func (d *Decoder) decodeMultiRequest(buf []byte, offset *int) error {
	for {
		op, err := d.cursor.PeekInt32(buf, offset)
		if err != nil {
			return err
		}
		done, err := d.cursor.PeekBool(buf, offset)
		if err != nil {
			return err
		}
		if err := d.cursor.Skip(buf, offset, 4); err != nil { // err
			return err
		}
		if done {
			return nil
		}
		subOp := zkproto.OpCode(op)
		switch subOp {
		case zkproto.OpCreate:
			if _, _, err := d.decodeCreateRequest(buf, offset); err != nil {
				return err
			}
		case zkproto.OpSetData:
			if _, err := d.decodeSetDataRequest(buf, offset); err != nil {
				return err
			}
		case zkproto.OpCheck:
			if _, _, err := d.decodePathVersion(buf, offset); err != nil {
				return err
			}
		default:
			return ErrUnknownMultiOpcode
		}
		d.sink.OnMultiSubOp(subOp)
	}
}
