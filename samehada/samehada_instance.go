package samehada

import (
	"fmt"
	"sync"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/errors"
	"github.com/ryogrid/SamehadaScan/storage/buffer"
	"github.com/ryogrid/SamehadaScan/storage/disk"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
)

const ErrTableExists = errors.Error("table already exists")

type SamehadaInstance struct {
	disk_manager disk.DiskManager
	bpm          *buffer.BufferPoolManager
	tables       map[string]*Table
	mutex        *sync.Mutex
}

func NewSamehadaInstanceForTesting() *SamehadaInstance {
	ret, err := NewSamehadaInstance("test", common.BufferPoolMaxFrameNumForTest)
	common.SH_Assert(err == nil, fmt.Sprintf("test instance can not be created: %v", err))
	return ret
}

// bpoolSize: usable buffer size in frame(=page) num
func NewSamehadaInstance(dbName string, bpoolSize int) (*SamehadaInstance, error) {
	var disk_manager disk.DiskManager
	if common.EnableOnMemStorage {
		disk_manager = disk.NewVirtualDiskManagerImpl(dbName + ".db")
	} else {
		var err error
		if disk_manager, err = disk.NewDiskManagerImpl(dbName + ".db"); err != nil {
			return nil, err
		}
	}
	bpm := buffer.NewBufferPoolManager(uint32(bpoolSize), disk_manager)

	return &SamehadaInstance{disk_manager, bpm, make(map[string]*Table), new(sync.Mutex)}, nil
}

func (si *SamehadaInstance) GetDiskManager() disk.DiskManager {
	return si.disk_manager
}

func (si *SamehadaInstance) GetBufferPoolManager() *buffer.BufferPoolManager {
	return si.bpm
}

// CreateTable creates table heap and hash indexes of the columns which have hasIndex flag
func (si *SamehadaInstance) CreateTable(name string, schema_ *schema.Schema) (*Table, error) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	if _, exist := si.tables[name]; exist {
		return nil, fmt.Errorf("%s: %w", name, ErrTableExists)
	}
	table, err := newTable(name, schema_, si.bpm, common.DefaultNumBucketsOfHashIndex)
	if err != nil {
		return nil, err
	}
	si.tables[name] = table
	common.ShPrintf(common.DEBUG_INFO, "CreateTable: %s %s\n", name, schema_)
	return table, nil
}

// GetTable returns nil when the table does not exist
func (si *SamehadaInstance) GetTable(name string) *Table {
	si.mutex.Lock()
	defer si.mutex.Unlock()
	return si.tables[name]
}

// functionality is Flushing dirty pages, shutdown of DiskManager and action around DB files
func (si *SamehadaInstance) Shutdown(IsRemoveFiles bool) {
	si.bpm.FlushAllPages()
	si.disk_manager.ShutDown()
	if IsRemoveFiles {
		si.disk_manager.RemoveDBFile()
	}
}
