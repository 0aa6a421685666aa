package schema

// ExampleCSV is a starter template operators can download and adapt.
const ExampleCSV = `item_id,field_id,field_type,label,help_text,required,options,default_value,skip_if,skip_to_field_id,group,min_value,max_value
10,country_name,text,Country Name,Enter the official country name,yes,,,,,Basic Information,,
20,has_referendum,radio,Referendum provision exists?,Is there a referendum mechanism?,yes,Yes|No,,No,final_notes,Basic Information,,
30,ref_type,dropdown,Type of Referendum,Select primary type,yes,Mandatory|Optional|Citizen-initiated,,,,Basic Information,,
40,threshold,number,Signature Threshold (%),Percentage of voters required,no,,,,,Basic Information,0,100
50,final_notes,textarea,Final Notes,Additional observations,no,,,,,,,`
