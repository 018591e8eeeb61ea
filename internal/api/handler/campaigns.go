package handler

import (
	"net/http"

	"github.com/vfg2006/campaign-hub-api/internal/domain"
	"github.com/vfg2006/campaign-hub-api/internal/usecases/campaigning"
)

// campaignRequest aceita datas em RFC3339 ou YYYY-MM-DD
type campaignRequest struct {
	Name      string           `json:"name"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Goals     string           `json:"goals"`
	Channels  []domain.Channel `json:"channels"`
}

func (req campaignRequest) toDomain() (domain.CreateCampaignRequest, error) {
	start, err := parseTime("startDate", req.StartDate)
	if err != nil {
		return domain.CreateCampaignRequest{}, err
	}
	end, err := parseTime("endDate", req.EndDate)
	if err != nil {
		return domain.CreateCampaignRequest{}, err
	}

	return domain.CreateCampaignRequest{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		Goals:     req.Goals,
		Channels:  req.Channels,
	}, nil
}

type campaignPatchRequest struct {
	Name      *string          `json:"name"`
	StartDate *string          `json:"startDate"`
	EndDate   *string          `json:"endDate"`
	Goals     *string          `json:"goals"`
	Channels  []domain.Channel `json:"channels"`
	Activate  bool             `json:"activate"`
}

func (req campaignPatchRequest) toDomain() (domain.CampaignPatch, error) {
	start, err := parseOptionalTime("startDate", req.StartDate)
	if err != nil {
		return domain.CampaignPatch{}, err
	}
	end, err := parseOptionalTime("endDate", req.EndDate)
	if err != nil {
		return domain.CampaignPatch{}, err
	}

	return domain.CampaignPatch{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		Goals:     req.Goals,
		Channels:  req.Channels,
		Activate:  req.Activate,
	}, nil
}

func ListCampaigns(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, service.ListCampaigns())
	})
}

func CreateCampaign(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body campaignRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, r, "create_campaign", err)
			return
		}

		req, err := body.toDomain()
		if err != nil {
			writeError(w, r, "create_campaign", err)
			return
		}

		campaign, err := service.CreateCampaign(req)
		if err != nil {
			writeError(w, r, "create_campaign", err)
			return
		}

		writeJSON(w, http.StatusCreated, campaign)
	})
}

func GetCampaign(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		campaign, err := service.GetCampaign(param(r, "id"))
		if err != nil {
			writeError(w, r, "get_campaign", err)
			return
		}

		writeJSON(w, http.StatusOK, campaign)
	})
}

func UpdateCampaign(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body campaignPatchRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, r, "update_campaign", err)
			return
		}

		patch, err := body.toDomain()
		if err != nil {
			writeError(w, r, "update_campaign", err)
			return
		}

		campaign, err := service.UpdateCampaign(param(r, "id"), patch)
		if err != nil {
			writeError(w, r, "update_campaign", err)
			return
		}

		writeJSON(w, http.StatusOK, campaign)
	})
}

func ActivateCampaign(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		campaign, err := service.ActivateCampaign(param(r, "id"))
		if err != nil {
			writeError(w, r, "activate_campaign", err)
			return
		}

		writeJSON(w, http.StatusOK, campaign)
	})
}

func DeleteCampaign(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deletion, err := service.DeleteCampaign(param(r, "id"))
		if err != nil {
			writeError(w, r, "delete_campaign", err)
			return
		}

		writeJSON(w, http.StatusOK, deletion)
	})
}
