package db

import (
	"time"

	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	errors2 "github.com/Bleu24/ojt-crm-sub000/internal/protodef/errors"
	model "github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
	dao "github.com/Bleu24/ojt-crm-sub000/internal/service/db/dao"
)

type RecruitService struct {
	mongoClient *mgo.Session
	recruitColl *mgo.Collection
	xl          *xlog.Logger
}

func NewRecruitService(conf utils.MongoConfig, xl *xlog.Logger) (*RecruitService, error) {
	if xl == nil {
		xl = xlog.New("ojt-crm-recruit-db")
	}
	mongoClient, err := mgo.Dial(conf.URI)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	recruitColl := mongoClient.DB(conf.Database).C(dao.CollectionRecruit)
	return &RecruitService{
		mongoClient: mongoClient,
		recruitColl: recruitColl,
		xl:          xl,
	}, nil
}

func (c *RecruitService) CreateRecruit(xl *xlog.Logger, recruit *model.RecruitDo) (*model.RecruitDo, error) {
	if xl == nil {
		xl = c.xl
	}
	recruit.CreateTime = time.Now()
	recruit.UpdateTime = recruit.CreateTime
	err := c.recruitColl.Insert(recruit)
	if err != nil {
		xl.Errorf("failed to insert recruit %s, error %v", recruit.ID, err)
		return nil, err
	}
	xl.Infof("user %s created recruit %s", recruit.Creator, recruit.ID)
	return recruit, nil
}

// GetRecruitByFields 根据一组 key/value 关系查找应聘者。
func (c *RecruitService) GetRecruitByFields(xl *xlog.Logger, fields map[string]interface{}) (*model.RecruitDo, error) {
	if xl == nil {
		xl = c.xl
	}
	recruit := model.RecruitDo{}
	err := c.recruitColl.Find(fields).One(&recruit)
	if err != nil {
		if err == mgo.ErrNotFound {
			xl.Infof("no such recruit for fields %v", fields)
			return nil, &errors2.ServerError{Code: errors2.ServerErrorRecruitNotFound}
		}
		xl.Errorf("failed to get recruit, error %v", fields)
		return nil, err
	}
	return &recruit, nil
}

func (c *RecruitService) GetRecruitByID(xl *xlog.Logger, recruitID string) (*model.RecruitDo, error) {
	return c.GetRecruitByFields(xl, map[string]interface{}{"_id": recruitID})
}

// UpdateRecruit 整体覆盖更新，最后写入者生效。
func (c *RecruitService) UpdateRecruit(xl *xlog.Logger, recruit *model.RecruitDo) error {
	if xl == nil {
		xl = c.xl
	}
	recruit.UpdateTime = time.Now()
	err := c.recruitColl.Update(bson.M{"_id": recruit.ID}, bson.M{"$set": recruit})
	if err != nil {
		xl.Errorf("failed to update recruit %s,error %v", recruit.ID, err)
		return err
	}
	return nil
}

// ListRecruitsByPage 列出与操作者相关的应聘者：其归属的、其创建的、或指定其负责终面的。
func (c *RecruitService) ListRecruitsByPage(xl *xlog.Logger, userID string, pageNum int, pageSize int) ([]model.RecruitDo, int, error) {
	if xl == nil {
		xl = c.xl
	}
	skip := (pageNum - 1) * pageSize
	limit := pageSize
	filter := bson.M{"$or": []bson.M{
		{"assignedTo": userID},
		{"creator": userID},
		{"finalInterviewAssignedTo": userID},
	}}
	recruits := []model.RecruitDo{}
	err := c.recruitColl.Find(filter).Sort("-updateTime").Skip(skip).Limit(limit).All(&recruits)
	if err != nil {
		xl.Errorf("failed to ListRecruits of userId %s, error %v", userID, err)
		return nil, 0, err
	}
	total, err := c.recruitColl.Find(filter).Count()
	if err != nil {
		xl.Errorf("failed to ListRecruits of userId %s, error %v", userID, err)
		return nil, 0, err
	}
	return recruits, total, err
}
