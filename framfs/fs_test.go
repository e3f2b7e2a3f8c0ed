package framfs

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/framtag/framfs/fram"
)

type FsSuite struct {
	suite.Suite
	store *fram.MemStore
	fs    *Fs
}

func (suite *FsSuite) SetupTest() {
	suite.store = fram.NewMemStore(fram.DefaultSize)
	fs, err := Format(suite.store)
	suite.Require().NoError(err)
	suite.fs = fs
}

func (suite *FsSuite) Create(name string) {
	suite.Require().NoError(suite.fs.CreateActive(name, TypeSensorLog))
}

func (suite *FsSuite) Append(data ...byte) {
	suite.Require().NoError(suite.fs.Append(data))
}

func (suite *FsSuite) TestCreateAppendRead() {
	suite.Create("240120")
	suite.Append(1, 2, 3, 4, 5)
	suite.Append(0xAA, 0xBB, 0xCC)

	size, err := suite.fs.FileSize("240120")
	suite.Require().NoError(err)
	suite.Equal(uint32(8), size)

	buf := make([]byte, 3)
	n, err := suite.fs.Read("240120", 2, buf)
	suite.Require().NoError(err)
	suite.Equal(3, n)
	suite.Equal([]byte{3, 4, 5}, buf)
}

func (suite *FsSuite) TestMediaLayout() {
	suite.Create("20240120")
	suite.Append(0xDE, 0xAD)

	// header at address 0, little-endian
	hdr := make([]byte, 13)
	suite.Require().NoError(suite.store.Read(0, hdr))
	suite.Equal([]byte{0x53, 0x46}, hdr[0:2])
	suite.Equal(Version, hdr[2])
	suite.Equal(uint8(1), hdr[3])

	// first index entry directly after the header
	entry := make([]byte, 20)
	suite.Require().NoError(suite.store.Read(13, entry))
	suite.Equal([]byte("20240120"), entry[0:8])
	suite.Equal(FlagValid|FlagActive, entry[16])

	// MAC header after 64 entries
	mac := make([]byte, 4)
	suite.Require().NoError(suite.store.Read(13+64*20, mac))
	suite.Equal([]byte{0x41, 0x4D}, mac[0:2])

	// data region base
	suite.Equal(uint32(1937), DataStart())
	data := make([]byte, 2)
	suite.Require().NoError(suite.store.Read(DataStart(), data))
	suite.Equal([]byte{0xDE, 0xAD}, data)
}

func (suite *FsSuite) TestAppendAdvancesHeader() {
	suite.Create("a")
	suite.Append(1, 2, 3)

	hdr, err := suite.fs.Stats()
	suite.Require().NoError(err)
	suite.Equal(DataStart()+3, hdr.NextDataAddr)
	suite.Equal(uint32(3), hdr.TotalDataSize)

	suite.Append(4)
	hdr, err = suite.fs.Stats()
	suite.Require().NoError(err)
	suite.Equal(DataStart()+4, hdr.NextDataAddr)
	suite.Equal(uint32(4), hdr.TotalDataSize)
}

func (suite *FsSuite) TestSingleActive() {
	suite.Create("day1")
	suite.Append(1)
	suite.Create("day2")

	name, err := suite.fs.ActiveFilename()
	suite.Require().NoError(err)
	suite.Equal("day2", name)

	info, err := suite.fs.FileInfo("day1")
	suite.Require().NoError(err)
	suite.Equal(FlagValid|FlagSealed, info.Flags)
	suite.Equal(uint32(1), info.Length)
}

func (suite *FsSuite) TestSealIrreversible() {
	suite.Create("f")
	suite.Append(9)
	suite.Require().NoError(suite.fs.SealActive())

	err := suite.fs.Append([]byte{1})
	suite.Equal(ErrNoActive, err)

	// sealing again is a no-op
	suite.Require().NoError(suite.fs.SealActive())

	_, err = suite.fs.ActiveFilename()
	suite.Equal(ErrNoActive, err)
}

func (suite *FsSuite) TestReadErrors() {
	suite.Create("f")
	suite.Append(1, 2, 3)

	buf := make([]byte, 8)
	n, err := suite.fs.Read("f", 0, buf)
	suite.Require().NoError(err)
	suite.Equal(3, n)

	_, err = suite.fs.Read("f", 3, buf)
	suite.Equal(ErrSize, err)
	_, err = suite.fs.Read("f", 100, buf)
	suite.Equal(ErrSize, err)
	_, err = suite.fs.Read("missing", 0, buf)
	suite.Equal(ErrNotFound, err)
	_, err = suite.fs.Read("f", 0, nil)
	suite.Equal(ErrInvalidParam, err)
}

func (suite *FsSuite) TestCreateErrors() {
	err := suite.fs.CreateActive("", TypeRawData)
	suite.Equal(ErrInvalidParam, err)

	err = suite.fs.CreateActive("wayTooLongName", TypeRawData)
	suite.Equal(ErrSize, err)

	suite.Create("f")
	err = suite.fs.CreateActive("f", TypeRawData)
	suite.Equal(ErrExists, err)
}

func (suite *FsSuite) TestIndexFull() {
	for i := 0; i < MaxFiles; i++ {
		suite.Create(string(rune('a'+i/26)) + string(rune('a'+i%26)))
	}
	err := suite.fs.CreateActive("zz", TypeRawData)
	suite.Equal(ErrFull, err)

	// format clears the index and creation works again
	suite.Require().NoError(suite.fs.Format())
	hdr, err := suite.fs.Stats()
	suite.Require().NoError(err)
	suite.Equal(uint8(0), hdr.FileCount)
	suite.Create("zz")
}

func (suite *FsSuite) TestAppendNoActive() {
	err := suite.fs.Append([]byte{1})
	suite.Equal(ErrNoActive, err)

	suite.Create("f")
	err = suite.fs.Append(nil)
	suite.Equal(ErrInvalidParam, err)
}

func (suite *FsSuite) TestDataRegionFull() {
	store := fram.NewMemStore(DataStart() + 8)
	fs, err := Format(store)
	suite.Require().NoError(err)
	suite.Require().NoError(fs.CreateActive("f", TypeRawData))

	suite.Require().NoError(fs.Append(make([]byte, 8)))
	err = fs.Append([]byte{1})
	suite.Equal(ErrFull, err)

	// a full format reclaims the space
	suite.Require().NoError(fs.Format())
	suite.Require().NoError(fs.CreateActive("g", TypeRawData))
	suite.Require().NoError(fs.Append(make([]byte, 8)))
}

func (suite *FsSuite) TestRemount() {
	suite.Create("day1")
	suite.Append(1, 2)
	suite.Create("day2")
	suite.Append(3)

	fs2, err := Init(suite.store)
	suite.Require().NoError(err)

	names, err := fs2.ListFiles()
	suite.Require().NoError(err)
	suite.Equal([]string{"day1", "day2"}, names)

	name, err := fs2.ActiveFilename()
	suite.Require().NoError(err)
	suite.Equal("day2", name)

	// the remounted handle can keep appending
	suite.Require().NoError(fs2.Append([]byte{4}))
	size, err := fs2.FileSize("day2")
	suite.Require().NoError(err)
	suite.Equal(uint32(2), size)
}

func (suite *FsSuite) TestInitFormatsBlankMedia() {
	store := fram.NewMemStore(fram.DefaultSize)
	fs, err := Init(store)
	suite.Require().NoError(err)

	hdr, err := fs.Stats()
	suite.Require().NoError(err)
	suite.Equal(Magic, hdr.Magic)
	suite.Equal(uint8(0), hdr.FileCount)
	suite.Equal(DataStart(), hdr.NextDataAddr)
}

func (suite *FsSuite) TestInitTooSmall() {
	store := fram.NewMemStore(DataStart())
	_, err := Init(store)
	suite.Equal(ErrInit, err)
	_, err = Format(store)
	suite.Equal(ErrInit, err)
}

func (suite *FsSuite) TestReactivate() {
	suite.Create("day1")
	suite.Append(1, 2, 3)
	suite.Require().NoError(suite.fs.SealActive())

	// reactivation discards the old extent
	suite.Require().NoError(suite.fs.Reactivate("day1"))
	name, err := suite.fs.ActiveFilename()
	suite.Require().NoError(err)
	suite.Equal("day1", name)

	size, err := suite.fs.FileSize("day1")
	suite.Require().NoError(err)
	suite.Equal(uint32(0), size)

	suite.Append(7)
	buf := make([]byte, 1)
	_, err = suite.fs.Read("day1", 0, buf)
	suite.Require().NoError(err)
	suite.Equal(byte(7), buf[0])

	err = suite.fs.Reactivate("missing")
	suite.Equal(ErrNotFound, err)
}

func (suite *FsSuite) TestListEmpty() {
	names, err := suite.fs.ListFiles()
	suite.Require().NoError(err)
	suite.Empty(names)
}

func TestFs(t *testing.T) {
	suite.Run(t, new(FsSuite))
}
