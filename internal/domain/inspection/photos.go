package inspection

import (
	"fmt"
	"strings"
)

const (
	RoomPhotoSlots    = 3
	MaxSubfloorPhotos = 20
)

// Photo is a reference to an uploaded image; storage is someone else's job.
type Photo struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Caption    string `json:"caption,omitempty"`
	OrderIndex int    `json:"orderIndex"`
}

func (p *Photo) ChildID() string   { return p.ID }
func (p *Photo) Position() int     { return p.OrderIndex }
func (p *Photo) SetPosition(i int) { p.OrderIndex = i }

func NewPhoto(id, url, caption string) (*Photo, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, invalidf("photo url is required")
	}
	return &Photo{ID: id, URL: url, Caption: strings.TrimSpace(caption)}, nil
}

type OutdoorSlot string

const (
	OutdoorFrontDoor  OutdoorSlot = "frontDoor"
	OutdoorFrontHouse OutdoorSlot = "frontHouse"
	OutdoorMailbox    OutdoorSlot = "mailbox"
	OutdoorStreet     OutdoorSlot = "street"
)

func ParseOutdoorSlot(s string) (OutdoorSlot, error) {
	switch slot := OutdoorSlot(strings.TrimSpace(s)); slot {
	case OutdoorFrontDoor, OutdoorFrontHouse, OutdoorMailbox, OutdoorStreet:
		return slot, nil
	default:
		return "", invalidf("unknown outdoor photo slot %q", s)
	}
}

type AreaSlot string

const (
	AreaRoomPhoto1      AreaSlot = "roomPhoto1"
	AreaRoomPhoto2      AreaSlot = "roomPhoto2"
	AreaRoomPhoto3      AreaSlot = "roomPhoto3"
	AreaInfrared        AreaSlot = "infrared"
	AreaInfraredNatural AreaSlot = "infraredNatural"
)

func ParseAreaSlot(s string) (AreaSlot, error) {
	switch slot := AreaSlot(strings.TrimSpace(s)); slot {
	case AreaRoomPhoto1, AreaRoomPhoto2, AreaRoomPhoto3, AreaInfrared, AreaInfraredNatural:
		return slot, nil
	default:
		return "", invalidf("unknown area photo slot %q", s)
	}
}

// SetPhoto fills a fixed area slot. An empty url clears it.
func (a *Area) SetPhoto(slot AreaSlot, url string) error {
	url = strings.TrimSpace(url)
	switch slot {
	case AreaRoomPhoto1:
		a.RoomPhotos[0] = url
	case AreaRoomPhoto2:
		a.RoomPhotos[1] = url
	case AreaRoomPhoto3:
		a.RoomPhotos[2] = url
	case AreaInfrared:
		a.InfraredPhoto = url
	case AreaInfraredNatural:
		a.InfraredNaturalPhoto = url
	default:
		return invalidf("unknown area photo slot %q", slot)
	}
	return nil
}

// RoomPhotosComplete is a soft check: the form asks for all three room photos
// but saving with fewer is allowed.
func (a *Area) RoomPhotosComplete() bool {
	for _, url := range a.RoomPhotos {
		if url == "" {
			return false
		}
	}
	return true
}

func (o *Outdoor) SetPhoto(slot OutdoorSlot, url string) error {
	url = strings.TrimSpace(url)
	switch slot {
	case OutdoorFrontDoor:
		o.FrontDoorPhoto = url
	case OutdoorFrontHouse:
		o.FrontHousePhoto = url
	case OutdoorMailbox:
		o.MailboxPhoto = url
	case OutdoorStreet:
		o.StreetPhoto = url
	default:
		return invalidf("unknown outdoor photo slot %q", slot)
	}
	return nil
}

func (o *Outdoor) AddDirectionPhoto(p *Photo) {
	o.DirectionPhotos = Append(o.DirectionPhotos, p)
}

// AddPhoto enforces the subfloor photo cap at write time.
func (s *Subfloor) AddPhoto(p *Photo) error {
	if len(s.Photos) >= MaxSubfloorPhotos {
		return fmt.Errorf("%w: subfloor holds at most %d photos", ErrLimitExceeded, MaxSubfloorPhotos)
	}
	s.Photos = Append(s.Photos, p)
	return nil
}

func (r *MoistureReading) AddPhoto(p *Photo) {
	r.Photos = Append(r.Photos, p)
}

func (r *SubfloorReading) AddPhoto(p *Photo) {
	r.Photos = Append(r.Photos, p)
}
