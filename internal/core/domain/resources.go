package domain

// Workspace is a Fabric workspace.
type Workspace struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	CapacityID  string `json:"capacityId,omitempty"`
}

// Lakehouse is a Fabric lakehouse item inside a workspace.
type Lakehouse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
}

// Warehouse is a Fabric warehouse item inside a workspace.
type Warehouse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Environment is a Spark environment inside a workspace.
type Environment struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// GitProviderDetails describes the source-control repository a
// workspace is connected to.
type GitProviderDetails struct {
	GitProviderType  string `json:"gitProviderType"`
	OrganizationName string `json:"organizationName"`
	ProjectName      string `json:"projectName,omitempty"`
	RepositoryName   string `json:"repositoryName"`
	BranchName       string `json:"branchName"`
	DirectoryName    string `json:"directoryName,omitempty"`
}
